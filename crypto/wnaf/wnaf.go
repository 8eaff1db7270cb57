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

// Package wnaf implements windowed non-adjacent-form (wNAF) variable-base
// exponentiation modulo N. It generalizes the digit-expansion-driven
// square-and-multiply shape of binaryquadraticform.(*BQuadraticForm).Exp
// (base-2/3 DBNS digits over an ideal class group) to signed base-2 wNAF
// digits over (Z/N)*.
package wnaf

import (
	"errors"
	"math/big"
)

var (
	// ErrWindowSize is returned when the window width is smaller than 2.
	ErrWindowSize = errors.New("wnaf: window size must be >= 2")
	// ErrOverflow is returned when bitlen isn't large enough to absorb e.
	ErrOverflow = errors.New("wnaf: bitlen too small for exponent")
)

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
)

// Digits computes the windowed NAF signed-digit expansion of e, MSB-first,
// filling exactly bitlen digits. Non-zero digits are odd and lie in
// [-2^(w-1)+1, 2^(w-1)-1]. bitlen should exceed bit_length(e); ErrOverflow
// is returned when the expansion of e does not fit in bitlen digits.
func Digits(e *big.Int, w int, bitlen int) ([]int32, error) {
	if w < 2 {
		return nil, ErrWindowSize
	}
	if e.Sign() < 0 {
		return nil, errors.New("wnaf: exponent must be non-negative")
	}

	windowMod := new(big.Int).Lsh(big1, uint(w))
	windowMask := new(big.Int).Sub(windowMod, big1)
	half := new(big.Int).Lsh(big1, uint(w-1))

	rem := new(big.Int).Set(e)
	lsbFirst := make([]int32, bitlen)
	for i := 0; i < bitlen; i++ {
		if rem.Bit(0) == 1 {
			d := new(big.Int).And(rem, windowMask)
			if d.Cmp(half) >= 0 {
				d.Sub(d, windowMod)
			}
			lsbFirst[i] = int32(d.Int64())
			rem.Sub(rem, d)
		}
		rem.Rsh(rem, 1)
	}
	if rem.Sign() != 0 {
		return nil, ErrOverflow
	}

	out := make([]int32, bitlen)
	for i := 0; i < bitlen; i++ {
		out[i] = lsbFirst[bitlen-1-i]
	}
	return out, nil
}

// oddMultiples builds the odd-multiple table T[0]=base, T[i]=T[i-1]*base^2,
// for i in [0, 2^(w-2)), reduced modulo N.
func oddMultiples(base, N *big.Int, w int) []*big.Int {
	size := 1 << (w - 2)
	table := make([]*big.Int, size)
	table[0] = new(big.Int).Mod(base, N)
	baseSq := new(big.Int).Mod(new(big.Int).Mul(base, base), N)
	for i := 1; i < size; i++ {
		table[i] = new(big.Int).Mod(new(big.Int).Mul(table[i-1], baseSq), N)
	}
	return table
}

func lookup(pos, neg []*big.Int, d int32) *big.Int {
	if d > 0 {
		return pos[(d-1)/2]
	}
	return neg[(-d-1)/2]
}

// Engine precomputes the odd-multiple tables for a base and its inverse at a
// fixed window size, so repeated exponentiations by the same base reuse them.
type Engine struct {
	N   *big.Int
	W   int
	Pos []*big.Int
	Neg []*big.Int
}

// NewEngine precomputes the tables for base (and its modular inverse baseInv)
// at window size w, modulo N.
func NewEngine(base, baseInv, N *big.Int, w int) (*Engine, error) {
	if w < 2 {
		return nil, ErrWindowSize
	}
	return &Engine{
		N:   N,
		W:   w,
		Pos: oddMultiples(base, N, w),
		Neg: oddMultiples(baseInv, N, w),
	}, nil
}

// Pow computes base^e mod N by scanning the wNAF digits of e MSB-first,
// squaring the accumulator every step except while it is still the identity.
func (e *Engine) Pow(exp *big.Int, bitlen int) (*big.Int, error) {
	digits, err := Digits(exp, e.W, bitlen)
	if err != nil {
		return nil, err
	}
	ret := big.NewInt(1)
	isIdentity := true
	for _, d := range digits {
		if !isIdentity {
			ret.Mod(new(big.Int).Mul(ret, ret), e.N)
		}
		if d != 0 {
			ret.Mod(new(big.Int).Mul(ret, lookup(e.Pos, e.Neg, d)), e.N)
			isIdentity = false
		}
	}
	return ret, nil
}

// Pow computes base^e mod N directly, without caching the odd-multiple
// tables across calls.
func Pow(base, baseInv, N, exp *big.Int, w, bitlen int) (*big.Int, error) {
	eng, err := NewEngine(base, baseInv, N, w)
	if err != nil {
		return nil, err
	}
	return eng.Pow(exp, bitlen)
}

// Pow2 computes b1^e1 * b2^e2 mod N, running the two exponentiations in
// lockstep and sharing the squarings of a single combined accumulator
// (Shamir's trick), per spec.md's "double-base" engine.
func Pow2(b1, b1Inv, e1 *big.Int, b2, b2Inv, e2 *big.Int, N *big.Int, w, bitlen int) (*big.Int, error) {
	d1, err := Digits(e1, w, bitlen)
	if err != nil {
		return nil, err
	}
	d2, err := Digits(e2, w, bitlen)
	if err != nil {
		return nil, err
	}
	pos1, neg1 := oddMultiples(b1, N, w), oddMultiples(b1Inv, N, w)
	pos2, neg2 := oddMultiples(b2, N, w), oddMultiples(b2Inv, N, w)

	ret := big.NewInt(1)
	isIdentity := true
	for i := range d1 {
		if !isIdentity {
			ret.Mod(new(big.Int).Mul(ret, ret), N)
		}
		if d1[i] != 0 {
			ret.Mod(new(big.Int).Mul(ret, lookup(pos1, neg1, d1[i])), N)
			isIdentity = false
		}
		if d2[i] != 0 {
			ret.Mod(new(big.Int).Mul(ret, lookup(pos2, neg2, d2[i])), N)
			isIdentity = false
		}
	}
	return ret, nil
}
