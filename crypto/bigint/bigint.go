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

// Package bigint implements the arbitrary-precision integer primitives the
// rest of the module needs: floor-division mod/div, gcd/egcd, modular
// inverse, Jacobi symbol, integer square root and modular square root.
//
// All arithmetic here is floor-division consistent (Python-style), not
// Go's native truncated-toward-zero convention: for x = q*y + r we require
// 0 <= r < |y| when y > 0, and y < r <= 0 when y < 0.
package bigint

import (
	"errors"
	"math/big"
)

var (
	// ErrDomain is returned when an input violates an arithmetic precondition.
	ErrDomain = errors.New("bigint: domain error")
	// ErrNotInvertible is returned when gcd(a,n) > 1 during a modular inverse.
	ErrNotInvertible = errors.New("bigint: not invertible")
	// ErrNotASquare is returned when a modular square root is requested for a
	// non quadratic-residue.
	ErrNotASquare = errors.New("bigint: not a square")
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
	big3 = big.NewInt(3)
	big4 = big.NewInt(4)
	big5 = big.NewInt(5)
	big8 = big.NewInt(8)
)

// BitLength returns the bit length of |x|, 0 for x == 0.
func BitLength(x *big.Int) int {
	return x.BitLen()
}

// ByteLength returns the minimal number of bytes needed to hold |x|.
func ByteLength(x *big.Int) int {
	return (BitLength(x) + 7) / 8
}

// ZeroBits returns the number of trailing zero bits of |x|, 0 for x == 0.
func ZeroBits(x *big.Int) int {
	if x.Sign() == 0 {
		return 0
	}
	return int(new(big.Int).Abs(x).TrailingZeroBits())
}

// FloorDivMod returns (q, r) such that x = q*y + r, with r's sign following
// y's sign and 0 <= |r| < |y|. y must be non-zero.
func FloorDivMod(x, y *big.Int) (q, r *big.Int) {
	q, r = new(big.Int), new(big.Int)
	q.QuoRem(x, y, r)
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big1)
		r.Add(r, y)
	}
	return q, r
}

// Div is the floor-division quotient of x by y.
func Div(x, y *big.Int) *big.Int {
	q, _ := FloorDivMod(x, y)
	return q
}

// Mod is the floor-division remainder of x by y: its sign follows y's sign.
func Mod(x, y *big.Int) *big.Int {
	_, r := FloorDivMod(x, y)
	return r
}

// Gcd computes gcd(a, b) via Euclid's algorithm on floor-mod, matching the
// shape of crypto/utils.Gcd in the teacher package but using our own
// floor-consistent Mod so it tolerates negative inputs the same way egcd does.
func Gcd(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x, y = y, Mod(x, y)
	}
	return x
}

// Egcd returns (s, t, g) such that s*a + t*b = g = gcd(|a|, |b|). s and t may
// be negative. Grounded on binaryquadraticform's exGCD, generalized to run
// the full extended-Euclid recurrence instead of delegating to math/big.GCD.
func Egcd(a, b *big.Int) (s, t, g *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, curS := big.NewInt(1), big.NewInt(0)
	oldT, curT := big.NewInt(0), big.NewInt(1)

	for r.Sign() != 0 {
		q := Div(oldR, r)

		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldS, curS = curS, new(big.Int).Sub(oldS, new(big.Int).Mul(q, curS))
		oldT, curT = curT, new(big.Int).Sub(oldT, new(big.Int).Mul(q, curT))
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldS, oldT, oldR
}

// Inverse returns the canonical representative in [0, n) of a^-1 mod n.
func Inverse(a, n *big.Int) (*big.Int, error) {
	s, _, g := Egcd(a, n)
	if g.Cmp(big1) != 0 {
		return nil, ErrNotInvertible
	}
	return Mod(s, n), nil
}

// Jacobi computes the Jacobi symbol (x/y). y must be positive and odd.
// Implements the standard reciprocity-loop algorithm (Handbook of Applied
// Cryptography, Algorithm 2.149).
func Jacobi(x, y *big.Int) (int, error) {
	if y.Sign() <= 0 || y.Bit(0) == 0 {
		return 0, ErrDomain
	}
	a := Mod(x, y)
	n := new(big.Int).Set(y)
	result := 1
	for a.Sign() != 0 {
		for a.Bit(0) == 0 {
			a.Rsh(a, 1)
			r := new(big.Int).And(n, big.NewInt(7)).Int64()
			if r == 3 || r == 5 {
				result = -result
			}
		}
		a, n = n, a
		if new(big.Int).And(a, big3).Int64() == 3 && new(big.Int).And(n, big3).Int64() == 3 {
			result = -result
		}
		a = Mod(a, n)
	}
	if n.Cmp(big1) == 0 {
		return result, nil
	}
	return 0, nil
}

// Sqrt returns floor(sqrt(x)) for x >= 0, via Newton's method.
func Sqrt(x *big.Int) *big.Int {
	if x.Sign() <= 0 {
		return big.NewInt(0)
	}
	if x.Cmp(big1) == 0 {
		return big.NewInt(1)
	}
	z := new(big.Int).Lsh(big1, uint(BitLength(x)/2+1))
	for {
		next := new(big.Int).Add(z, Div(x, z))
		next.Rsh(next, 1)
		if next.Cmp(z) >= 0 {
			return z
		}
		z = next
	}
}

// ModPow computes x^y mod m with right-to-left square-and-multiply,
// supporting negative y by pre-inverting x. Fails when m == 0; returns 0
// when m == 1.
func ModPow(x, y, m *big.Int) (*big.Int, error) {
	if m.Sign() == 0 {
		return nil, ErrDomain
	}
	if m.Cmp(big1) == 0 {
		return big.NewInt(0), nil
	}
	base := new(big.Int).Set(x)
	exp := new(big.Int).Set(y)
	if exp.Sign() < 0 {
		inv, err := Inverse(base, m)
		if err != nil {
			return nil, err
		}
		base = inv
		exp.Neg(exp)
	}
	base = Mod(base, m)
	result := big.NewInt(1)
	for exp.Sign() > 0 {
		if exp.Bit(0) == 1 {
			result.Mod(new(big.Int).Mul(result, base), m)
		}
		base.Mod(new(big.Int).Mul(base, base), m)
		exp.Rsh(exp, 1)
	}
	return result, nil
}

// ModSqrt returns a square root of x modulo the prime p, dispatching on the
// Jacobi symbol and using the p=3(mod 4) / p=5(mod 8) fast branches before
// falling back to Tonelli-Shanks.
func ModSqrt(x, p *big.Int) (*big.Int, error) {
	a := Mod(x, p)
	if a.Sign() == 0 {
		return big.NewInt(0), nil
	}
	j, err := Jacobi(a, p)
	if err != nil {
		return nil, err
	}
	if j == -1 {
		return nil, ErrNotASquare
	}

	pMod4 := new(big.Int).And(p, big3)
	if pMod4.Cmp(big3) == 0 {
		exp := Div(new(big.Int).Add(p, big1), big4)
		return ModPow(a, exp, p)
	}

	pMod8 := new(big.Int).And(p, big.NewInt(7))
	if pMod8.Cmp(big5) == 0 {
		exp := Div(new(big.Int).Sub(p, big1), big4)
		d, err := ModPow(a, exp, p)
		if err != nil {
			return nil, err
		}
		if d.Cmp(big1) == 0 {
			exp2 := Div(new(big.Int).Add(p, big3), big8)
			return ModPow(a, exp2, p)
		}
		// d == p-1
		four := new(big.Int).Mul(big4, a)
		exp2 := Div(new(big.Int).Sub(p, big5), big8)
		root, err := ModPow(four, exp2, p)
		if err != nil {
			return nil, err
		}
		r := new(big.Int).Mul(big2, a)
		r.Mul(r, root)
		return Mod(r, p), nil
	}

	return tonelliShanks(a, p)
}

// tonelliShanks implements the general case, picking the least non-residue
// n >= 2.
func tonelliShanks(a, p *big.Int) (*big.Int, error) {
	// p - 1 = q * 2^s, q odd.
	q := new(big.Int).Sub(p, big1)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	n := big.NewInt(2)
	for {
		j, err := Jacobi(n, p)
		if err != nil {
			return nil, err
		}
		if j == -1 {
			break
		}
		n.Add(n, big1)
	}

	m := s
	c, err := ModPow(n, q, p)
	if err != nil {
		return nil, err
	}
	t, err := ModPow(a, q, p)
	if err != nil {
		return nil, err
	}
	qPlus1Over2 := Div(new(big.Int).Add(q, big1), big2)
	r, err := ModPow(a, qPlus1Over2, p)
	if err != nil {
		return nil, err
	}

	for {
		if t.Cmp(big1) == 0 {
			return r, nil
		}
		// Find least i, 0 < i < m, such that t^(2^i) == 1.
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(big1) != 0 {
			tt.Mod(new(big.Int).Mul(tt, tt), p)
			i++
			if i == m {
				return nil, ErrNotASquare
			}
		}
		b, err := ModPow(c, new(big.Int).Lsh(big1, uint(m-i-1)), p)
		if err != nil {
			return nil, err
		}
		m = i
		c = new(big.Int).Mod(new(big.Int).Mul(b, b), p)
		t = new(big.Int).Mod(new(big.Int).Mul(t, c), p)
		r = new(big.Int).Mod(new(big.Int).Mul(r, b), p)
	}
}

// CRT returns the unique x modulo p*q with x == rp (mod p) and x == rq (mod q),
// for coprime p, q. Used to combine modular square roots found separately
// mod p and mod q into a square root mod p*q.
func CRT(rp, p, rq, q *big.Int) (*big.Int, error) {
	pInvModQ, err := Inverse(p, q)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).Mul(p, q)
	// x = rp + p * ((rq - rp) * p^-1 mod q)
	diff := new(big.Int).Sub(rq, rp)
	k := Mod(new(big.Int).Mul(diff, pInvModQ), q)
	x := new(big.Int).Add(rp, new(big.Int).Mul(p, k))
	return Mod(x, n), nil
}
