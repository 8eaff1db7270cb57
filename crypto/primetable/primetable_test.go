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

package primetable

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestPrimetable(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "primetable Suite")
}

var _ = Describe("SmallPrimes", func() {
	It("contains only odd primes, ascending", func() {
		Expect(len(SmallPrimes)).To(BeNumerically(">", 100))
		for i, p := range SmallPrimes {
			Expect(p % 2).To(Equal(uint32(1)))
			if i > 0 {
				Expect(p).To(BeNumerically(">", SmallPrimes[i-1]))
			}
		}
	})
})

var _ = Describe("IsPrime", func() {
	It("accepts known primes and rejects composites", func() {
		Expect(IsPrime(big.NewInt(97), nil)).To(BeTrue())
		Expect(IsPrime(big.NewInt(91), nil)).To(BeFalse())
		Expect(IsPrime(big.NewInt(1), nil)).To(BeFalse())
	})

	It("exercises the Miller-Rabin path for candidates past the small-prime table", func() {
		mersenne127, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
		Expect(IsPrime(mersenne127, []byte("key-a"))).To(BeTrue())
		Expect(IsPrime(new(big.Int).Add(mersenne127, big.NewInt(2)), []byte("key-a"))).To(BeFalse())
	})

	It("agrees on the same candidate across different keys", func() {
		mersenne127, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
		Expect(IsPrime(mersenne127, []byte("key-a"))).To(Equal(IsPrime(mersenne127, []byte("key-b"))))
	})
})

var _ = Describe("NextPrime", func() {
	It("finds the smallest prime at or after an even seed", func() {
		p, err := NextPrime(big.NewInt(24), []byte("key"), 10)
		Expect(err).To(BeNil())
		Expect(p).To(Equal(big.NewInt(29)))
	})

	It("is deterministic for the same seed and key", func() {
		p1, err := NextPrime(big.NewInt(100), []byte("k"), 100)
		Expect(err).To(BeNil())
		p2, err := NextPrime(big.NewInt(100), []byte("k"), 100)
		Expect(err).To(BeNil())
		Expect(p1).To(Equal(p2))
	})

	It("fails when no prime exists within the gap", func() {
		// seed 24 rounds up to 25, already past seed+maxGap = 24, so no
		// candidate is tried at all.
		_, err := NextPrime(big.NewInt(24), []byte("key"), 0)
		Expect(err).To(Equal(ErrNoPrimeInRange))
	})

	It("bounds the search by candidate value, not iterations tried", func() {
		// 113 is prime; the next prime after it is 127, 14 away. A maxGap of
		// 10 must reject rather than walk past the window to find it.
		_, err := NextPrime(big.NewInt(114), []byte("key"), 10)
		Expect(err).To(Equal(ErrNoPrimeInRange))

		p, err := NextPrime(big.NewInt(114), []byte("key"), 13)
		Expect(err).To(BeNil())
		Expect(p).To(Equal(big.NewInt(127)))
	})
})
