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

package rsasanity

import (
	"crypto/rand"
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func big64(x int64) *big.Int { return big.NewInt(x) }

func TestRsasanity(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "rsasanity Suite")
}

var _ = Describe("CheckFactorization", func() {
	It("accepts a real 1024-bit RSA key pair", func() {
		p, err := rand.Prime(rand.Reader, 520)
		Expect(err).To(BeNil())
		q, err := rand.Prime(rand.Reader, 520)
		Expect(err).To(BeNil())
		Expect(CheckFactorization(p, q)).To(BeNil())
	})

	It("rejects equal factors", func() {
		p, err := rand.Prime(rand.Reader, 520)
		Expect(err).To(BeNil())
		Expect(CheckFactorization(p, p)).To(Equal(ErrEqualFactors))
	})
})

var _ = Describe("EulerPhi", func() {
	It("computes (p-1)*(q-1)", func() {
		p, q := big64(11), big64(13)
		Expect(EulerPhi(p, q)).To(Equal(big64(120)))
	})
})
