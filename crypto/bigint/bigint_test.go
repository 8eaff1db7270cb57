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

package bigint

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestBigint(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bigint Suite")
}

func big64(x int64) *big.Int { return big.NewInt(x) }

var _ = Describe("floor-mod law", func() {
	DescribeTable("div(x,y)*y + mod(x,y) == x, sign of mod follows y", func(x, y int64) {
		bx, by := big64(x), big64(y)
		q, r := FloorDivMod(bx, by)
		Expect(new(big.Int).Add(new(big.Int).Mul(q, by), r)).To(Equal(bx))
		if by.Sign() > 0 {
			Expect(r.Sign()).To(BeNumerically(">=", 0))
			Expect(r.CmpAbs(by)).To(BeNumerically("<", 0))
		} else {
			Expect(r.Sign()).To(BeNumerically("<=", 0))
			Expect(r.CmpAbs(by)).To(BeNumerically("<", 0))
		}
	},
		Entry("positive/positive", int64(7), int64(3)),
		Entry("negative/positive", int64(-7), int64(3)),
		Entry("positive/negative", int64(7), int64(-3)),
		Entry("negative/negative", int64(-7), int64(-3)),
		Entry("exact division", int64(9), int64(3)),
		Entry("zero dividend", int64(0), int64(5)),
	)
})

var _ = Describe("Egcd", func() {
	It("matches the textbook example: egcd(240,46) = (-9,47,2)", func() {
		s, t, g := Egcd(big64(240), big64(46))
		Expect(s).To(Equal(big64(-9)))
		Expect(t).To(Equal(big64(47)))
		Expect(g).To(Equal(big64(2)))
	})

	DescribeTable("always satisfies s*a + t*b == g", func(a, b int64) {
		ba, bb := big64(a), big64(b)
		s, t, g := Egcd(ba, bb)
		lhs := new(big.Int).Add(new(big.Int).Mul(s, ba), new(big.Int).Mul(t, bb))
		Expect(lhs).To(Equal(g))
		Expect(g).To(Equal(Gcd(ba, bb)))
	},
		Entry("240,46", int64(240), int64(46)),
		Entry("negative a", int64(-240), int64(46)),
		Entry("negative b", int64(240), int64(-46)),
		Entry("coprime", int64(17), int64(13)),
	)
})

var _ = Describe("Inverse", func() {
	It("fails when gcd > 1", func() {
		_, err := Inverse(big64(4), big64(6))
		Expect(err).To(Equal(ErrNotInvertible))
	})

	It("returns the canonical representative in [0,n)", func() {
		inv, err := Inverse(big64(3), big64(11))
		Expect(err).To(BeNil())
		Expect(inv.Sign()).To(BeNumerically(">=", 0))
		Expect(inv.Cmp(big64(11))).To(BeNumerically("<", 0))
		Expect(new(big.Int).Mod(new(big.Int).Mul(inv, big64(3)), big64(11))).To(Equal(big64(1)))
	})
})

var _ = Describe("Jacobi", func() {
	It("jacobi(1001,9907) == -1", func() {
		j, err := Jacobi(big64(1001), big64(9907))
		Expect(err).To(BeNil())
		Expect(j).To(Equal(-1))
	})

	It("jacobi(0,1) == 1", func() {
		j, err := Jacobi(big64(0), big64(1))
		Expect(err).To(BeNil())
		Expect(j).To(Equal(1))
	})

	It("jacobi(2,1) == 1", func() {
		j, err := Jacobi(big64(2), big64(1))
		Expect(err).To(BeNil())
		Expect(j).To(Equal(1))
	})

	It("rejects an even modulus", func() {
		_, err := Jacobi(big64(3), big64(4))
		Expect(err).To(Equal(ErrDomain))
	})

	DescribeTable("matches a reference table", func(x, y int64, want int) {
		j, err := Jacobi(big64(x), big64(y))
		Expect(err).To(BeNil())
		Expect(j).To(Equal(want))
	},
		Entry("x=1,y=1", int64(1), int64(1), 1),
		Entry("x=2,y=3", int64(2), int64(3), -1),
		Entry("x=5,y=21", int64(5), int64(21), 1),
		Entry("x=-1,y=21", int64(-1), int64(21), 1),
		Entry("x=40,y=31", int64(40), int64(31), 1),
	)
})

var _ = Describe("Sqrt", func() {
	It("sqrt(0) == 0 and sqrt(1) == 1", func() {
		Expect(Sqrt(big64(0))).To(Equal(big64(0)))
		Expect(Sqrt(big64(1))).To(Equal(big64(1)))
	})

	It("sqrt((1<<200)-1) == (1<<100)-1", func() {
		x := new(big.Int).Sub(new(big.Int).Lsh(big1, 200), big1)
		want := new(big.Int).Sub(new(big.Int).Lsh(big1, 100), big1)
		Expect(Sqrt(x)).To(Equal(want))
	})

	DescribeTable("floor(sqrt(n^2)) == n and floor(sqrt(n^2+1)) == n", func(n int64) {
		bn := big64(n)
		nSquare := new(big.Int).Mul(bn, bn)
		Expect(Sqrt(nSquare)).To(Equal(bn))
		Expect(Sqrt(new(big.Int).Add(nSquare, big1))).To(Equal(bn))
	},
		Entry("n=2", int64(2)),
		Entry("n=7", int64(7)),
		Entry("n=1000", int64(1000)),
	)
})

var _ = Describe("ModPow", func() {
	It("x^0 mod m == 1 for m > 1", func() {
		r, err := ModPow(big64(5), big64(0), big64(7))
		Expect(err).To(BeNil())
		Expect(r).To(Equal(big64(1)))
	})

	It("fails when m == 0", func() {
		_, err := ModPow(big64(5), big64(2), big64(0))
		Expect(err).To(Equal(ErrDomain))
	})

	It("returns 0 for m == 1", func() {
		r, err := ModPow(big64(5), big64(2), big64(1))
		Expect(err).To(BeNil())
		Expect(r).To(Equal(big64(0)))
	})

	It("supports negative exponents via inversion", func() {
		r, err := ModPow(big64(3), big64(-1), big64(11))
		Expect(err).To(BeNil())
		Expect(new(big.Int).Mod(new(big.Int).Mul(r, big64(3)), big64(11))).To(Equal(big64(1)))
	})
})

var _ = Describe("ModSqrt", func() {
	It("mod_sqrt(0,p) == 0", func() {
		r, err := ModSqrt(big64(0), big64(13))
		Expect(err).To(BeNil())
		Expect(r).To(Equal(big64(0)))
	})

	It("mod_sqrt(10,13) is 6 or 7 (p == 5 mod 8 branch)", func() {
		r, err := ModSqrt(big64(10), big64(13))
		Expect(err).To(BeNil())
		Expect(r.Int64() == 6 || r.Int64() == 7).To(BeTrue())
	})

	It("mod_sqrt(2,7) is 3 or 4 (p == 3 mod 4 fast branch)", func() {
		r, err := ModSqrt(big64(2), big64(7))
		Expect(err).To(BeNil())
		Expect(r.Int64() == 3 || r.Int64() == 4).To(BeTrue())
	})

	It("fails NotASquare for a non-residue", func() {
		_, err := ModSqrt(big64(3), big64(7))
		Expect(err).To(Equal(ErrNotASquare))
	})

	DescribeTable("root squares back to x mod p", func(x, p int64) {
		r, err := ModSqrt(big64(x), big64(p))
		Expect(err).To(BeNil())
		got := new(big.Int).Mod(new(big.Int).Mul(r, r), big64(p))
		Expect(got).To(Equal(new(big.Int).Mod(big64(x), big64(p))))
	},
		Entry("p=3mod4", int64(3), int64(23)),
		Entry("p=5mod8", int64(10), int64(13)),
		Entry("p=1mod8 general", int64(5), int64(41)),
	)
})

var _ = Describe("CRT", func() {
	It("combines two residues into a consistent value mod p*q", func() {
		p, q := big64(11), big64(13)
		rp, rq := big64(3), big64(7)
		x, err := CRT(rp, p, rq, q)
		Expect(err).To(BeNil())
		Expect(new(big.Int).Mod(x, p)).To(Equal(rp))
		Expect(new(big.Int).Mod(x, q)).To(Equal(rq))
	})
})
