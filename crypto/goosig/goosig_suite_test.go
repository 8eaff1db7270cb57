// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package goosig

import (
	"crypto/rand"
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/goo-zkp/goo/crypto/guo"
	"github.com/goo-zkp/goo/crypto/params"
)

func TestGoosig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "goosig Suite")
}

// newTestGroup builds a GUO group sized to absorb both the signer's
// commitment-scale exponents and its much wider quotient exponents.
func newTestGroup() *guo.Group {
	p, err := rand.Prime(rand.Reader, 550)
	if err != nil {
		panic(err)
	}
	q, err := rand.Prime(rand.Reader, 550)
	if err != nil {
		panic(err)
	}
	N := new(big.Int).Mul(p, q)
	grp, err := guo.New(N, big.NewInt(2), big.NewInt(3), []int{params.ExponentSize + 1, params.LargeExpBits})
	if err != nil {
		panic(err)
	}
	return grp
}

// newTestRSAKey draws a fresh RSA factorization large enough to clear
// rsasanity's minimum modulus bound.
func newTestRSAKey() (p, q *big.Int) {
	p, err := rand.Prime(rand.Reader, 520)
	if err != nil {
		panic(err)
	}
	q, err = rand.Prime(rand.Reader, 520)
	if err != nil {
		panic(err)
	}
	return p, q
}

func testSeed(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b + byte(i)
	}
	return seed
}
