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
	"math/big"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/getamis/sirius/log"

	"github.com/goo-zkp/goo/crypto/rsasanity"
)

var _ = Describe("Signer.Sign", func() {
	grp := newTestGroup()
	p, q := newTestRSAKey()

	It("produces a signature whose fields satisfy the wire-level range checks", func() {
		signer := NewSigner(grp, log.Discard())
		sig, err := signer.Sign([]byte("airdrop claim for epoch 42"), testSeed(1), p, q)
		Expect(err).To(BeNil())
		Expect(sig).NotTo(BeNil())

		Expect(sig.Ell.BitLen()).To(Equal(128))
		Expect(rangeCheck(sig)).To(BeTrue())
		Expect(tInTable(sig.T)).To(BeTrue())
	})

	It("round-trips through Marshal/Unmarshal", func() {
		signer := NewSigner(grp, log.Discard())
		sig, err := signer.Sign([]byte("round trip"), testSeed(2), p, q)
		Expect(err).To(BeNil())

		raw, err := Marshal(sig, grp.Size)
		Expect(err).To(BeNil())
		Expect(len(raw)).To(Equal(Size(grp.Size)))

		got, err := Unmarshal(raw, grp.Size)
		Expect(err).To(BeNil())
		Expect(got).To(Equal(sig))
	})

	It("rejects a factorization with an equal pair", func() {
		signer := NewSigner(grp, log.Discard())
		_, err := signer.Sign([]byte("bad"), testSeed(3), p, p)
		Expect(err).To(Equal(rsasanity.ErrEqualFactors))
	})

	It("rejects an RSA modulus below the minimum size", func() {
		signer := NewSigner(grp, log.Discard())
		small1 := big.NewInt(61)
		small2 := big.NewInt(53)
		_, err := signer.Sign([]byte("too small"), testSeed(4), small1, small2)
		Expect(err).To(Equal(rsasanity.ErrSmallModulus))
	})
})

var _ = Describe("modSqrtN", func() {
	It("returns all four sign-lifted CRT roots of a perfect square", func() {
		p := big.NewInt(61)
		q := big.NewInt(53)
		n := new(big.Int).Mul(p, q)
		t := big.NewInt(49) // 7^2, comfortably below both p and q

		roots, ok := modSqrtN(t, p, q)
		Expect(ok).To(BeTrue())
		Expect(roots).To(HaveLen(4))
		for _, w := range roots {
			wSq := new(big.Int).Mod(new(big.Int).Mul(w, w), n)
			Expect(wSq).To(Equal(t))
		}
	})
})
