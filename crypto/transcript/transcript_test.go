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

package transcript

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type fakeOracle struct{}

func (fakeOracle) NextPrime(seed *big.Int, key []byte, maxGap int) (*big.Int, error) {
	// deterministic stand-in: the next odd number, good enough to exercise
	// the wiring without depending on crypto/primetable from this package's
	// tests.
	n := new(big.Int).Set(seed)
	if n.Bit(0) == 0 {
		n.Add(n, big.NewInt(1))
	}
	return n, nil
}

func TestTranscript(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "transcript Suite")
}

func testParams() Params {
	return Params{N: big.NewInt(3233), G: 71, H: 17, ModBytes: 2}
}

var _ = Describe("FSChal", func() {
	p := testParams()
	C1, C2, C3 := big.NewInt(100), big.NewInt(200), big.NewInt(300)
	A, B, C, D := big.NewInt(11), big.NewInt(22), big.NewInt(33), big.NewInt(44)
	E := big.NewInt(55)
	msg := []byte("test")

	It("is deterministic across repeated calls with identical inputs", func() {
		c1, err := FSChal(p, C1, C2, C3, 5, A, B, C, D, E, msg, false, fakeOracle{})
		Expect(err).To(BeNil())
		c2, err := FSChal(p, C1, C2, C3, 5, A, B, C, D, E, msg, false, fakeOracle{})
		Expect(err).To(BeNil())
		Expect(c1.Chal).To(Equal(c2.Chal))
		Expect(c1.Ell).To(Equal(c2.Ell))
		Expect(c1.Key).To(Equal(c2.Key))
	})

	It("changes the challenge when any byte of the transcript changes", func() {
		c1, err := FSChal(p, C1, C2, C3, 5, A, B, C, D, E, msg, false, fakeOracle{})
		Expect(err).To(BeNil())
		c2, err := FSChal(p, C1, C2, C3, 5, A, B, C, D, E, []byte("Test"), false, fakeOracle{})
		Expect(err).To(BeNil())
		Expect(c1.Chal).NotTo(Equal(c2.Chal))
	})

	It("takes ell_r as-is on the verifier path", func() {
		c, err := FSChal(p, C1, C2, C3, 5, A, B, C, D, E, msg, true, fakeOracle{})
		Expect(err).To(BeNil())
		Expect(c.Ell.BitLen()).To(BeNumerically("<=", 128))
	})

	It("rejects a message longer than the fixed field width", func() {
		longMsg := make([]byte, 65)
		_, err := FSChal(p, C1, C2, C3, 5, A, B, C, D, E, longMsg, false, fakeOracle{})
		Expect(err).To(Equal(ErrDomain))
	})

	It("rejects a negative group element", func() {
		_, err := FSChal(p, big.NewInt(-1), C2, C3, 5, A, B, C, D, E, msg, false, fakeOracle{})
		Expect(err).To(Equal(ErrDomain))
	})
})
