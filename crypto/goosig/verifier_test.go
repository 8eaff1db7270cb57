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

	"github.com/goo-zkp/goo/crypto/guo"
)

// sign builds a fresh, valid signature plus the C1 commitment it binds, for
// use as a fixture across the verifier tests below.
func sign(grp *guo.Group, msg []byte, seed byte, p, q *big.Int) (*Signature, *big.Int) {
	signer := NewSigner(grp, log.Discard())
	sig, err := signer.Sign(msg, testSeed(seed), p, q)
	Expect(err).To(BeNil())

	sVal, err := expandSPrime(testSeed(seed))
	Expect(err).To(BeNil())
	n := new(big.Int).Mul(p, q)
	C1, err := grp.PowGH(n, sVal)
	Expect(err).To(BeNil())
	C1 = grp.Reduce(C1)

	return sig, C1
}

var _ = Describe("Verifier.Verify", func() {
	grp := newTestGroup()
	p, q := newTestRSAKey()
	msg := []byte("airdrop claim for epoch 42")

	It("accepts a genuine signature", func() {
		sig, C1 := sign(grp, msg, 10, p, q)
		raw, err := Marshal(sig, grp.Size)
		Expect(err).To(BeNil())

		verifier := NewVerifier(grp, log.Discard())
		Expect(verifier.Verify(msg, raw, C1)).To(BeTrue())
	})

	It("rejects a signature bound to a different message", func() {
		sig, C1 := sign(grp, msg, 11, p, q)
		raw, err := Marshal(sig, grp.Size)
		Expect(err).To(BeNil())

		verifier := NewVerifier(grp, log.Discard())
		Expect(verifier.Verify([]byte("a different claim"), raw, C1)).To(BeFalse())
	})

	It("rejects a signature against the wrong commitment", func() {
		sig, _ := sign(grp, msg, 12, p, q)
		raw, err := Marshal(sig, grp.Size)
		Expect(err).To(BeNil())

		wrongC1 := grp.Reduce(big.NewInt(12345))
		verifier := NewVerifier(grp, log.Discard())
		Expect(verifier.Verify(msg, raw, wrongC1)).To(BeFalse())
	})

	It("rejects a tampered challenge", func() {
		sig, C1 := sign(grp, msg, 13, p, q)
		sig.Chal = new(big.Int).Add(sig.Chal, big.NewInt(1))
		raw, err := Marshal(sig, grp.Size)
		Expect(err).To(BeNil())

		verifier := NewVerifier(grp, log.Discard())
		Expect(verifier.Verify(msg, raw, C1)).To(BeFalse())
	})

	It("rejects malformed wire bytes outright", func() {
		_, C1 := sign(grp, msg, 14, p, q)
		verifier := NewVerifier(grp, log.Discard())
		Expect(verifier.Verify(msg, []byte{0x01, 0x02, 0x03}, C1)).To(BeFalse())
	})
})
