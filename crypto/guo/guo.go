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

// Package guo implements the group of unknown order (Z/N)*/{±1} that the
// signature scheme runs over: canonical-representative reduction, batched
// inversion, and variable/fixed-base exponentiation composed from the wnaf
// and comb packages. Replaces the mixin-inheritance shape the reference
// design describes (Comb -> wNAF -> Rand) with plain field composition, per
// the module's own design notes.
package guo

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/goo-zkp/goo/crypto/bigint"
	"github.com/goo-zkp/goo/crypto/comb"
	"github.com/goo-zkp/goo/crypto/params"
	"github.com/goo-zkp/goo/crypto/wnaf"
)

var (
	// ErrNotInvertible is returned when a group element shares a factor with N.
	ErrNotInvertible = bigint.ErrNotInvertible
	// ErrOverflow names exponent overflow at the group level. The Group
	// methods do not return it themselves: PowGH passes on comb.ErrOverflow
	// and Pow/Pow2 pass on wnaf.ErrOverflow.
	ErrOverflow = errors.New("guo: exponent overflow")
)

// RandSource abstracts "draw k uniformly random bits", letting tests swap in
// a seeded deterministic source while production code uses crypto/rand.
type RandSource interface {
	// RandomBits returns a uniform random non-negative integer strictly
	// less than 2^bits.
	RandomBits(bits int) (*big.Int, error)
}

// CryptoRandSource draws randomness from crypto/rand.
type CryptoRandSource struct{}

// RandomBits implements RandSource using crypto/rand.Reader.
func (CryptoRandSource) RandomBits(bits int) (*big.Int, error) {
	return RandomBits(rand.Reader, bits)
}

// RandomBits draws a uniform integer in [0, 2^bits) from r.
func RandomBits(r io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return big.NewInt(0), nil
	}
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	extra := byteLen*8 - bits
	if extra > 0 {
		buf[0] &= 0xff >> uint(extra)
	}
	return new(big.Int).SetBytes(buf), nil
}

// Group holds the immutable public parameters of a GUO instance: the RSA
// modulus, the two generators, and the precomputed comb/wNAF machinery
// needed to exponentiate in it.
type Group struct {
	N    *big.Int
	G    *big.Int
	H    *big.Int
	Bits int // ceil(log2 N)
	Size int // ceil(bits/8)
	Nh   *big.Int

	RandBits int

	gCombs []*comb.Table
	hCombs []*comb.Table

	gInv *big.Int
	hInv *big.Int

	wnafWindow int

	Rand RandSource
}

// New constructs a Group for modulus N with generators g, h. combBits lists
// the exponent bit widths the caller needs fixed-base combs for (e.g. a
// small one for random scalars and a large one for the prover's worst-case
// quotient exponent); each entry produces one paired (g,h) comb tier.
func New(N, g, h *big.Int, combBits []int) (*Group, error) {
	grp := &Group{
		N:          N,
		G:          new(big.Int).Mod(g, N),
		H:          new(big.Int).Mod(h, N),
		Bits:       bigint.BitLength(N),
		Size:       bigint.ByteLength(N),
		wnafWindow: params.WindowSize,
		Rand:       CryptoRandSource{},
	}
	grp.Nh = new(big.Int).Rsh(N, 1)
	grp.RandBits = grp.Bits - 1

	gInv, err := bigint.Inverse(grp.G, N)
	if err != nil {
		return nil, err
	}
	hInv, err := bigint.Inverse(grp.H, N)
	if err != nil {
		return nil, err
	}
	grp.gInv, grp.hInv = gInv, hInv

	for _, bits := range combBits {
		spec, err := comb.Generate(bits, params.MaxCombSize)
		if err != nil {
			return nil, err
		}
		grp.gCombs = append(grp.gCombs, comb.Precompute(*spec, grp.G, N))
		grp.hCombs = append(grp.hCombs, comb.Precompute(*spec, grp.H, N))
	}
	return grp, nil
}

// Mul returns a*b mod N.
func (grp *Group) Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), grp.N)
}

// Sqr returns a*a mod N.
func (grp *Group) Sqr(a *big.Int) *big.Int {
	return grp.Mul(a, a)
}

// Reduce returns the canonical representative min(b, N-b) of b's class in
// (Z/N)*/{±1}.
func (grp *Group) Reduce(b *big.Int) *big.Int {
	b = new(big.Int).Mod(b, grp.N)
	other := new(big.Int).Sub(grp.N, b)
	if other.Cmp(b) < 0 {
		return other
	}
	return b
}

// IsReduced reports whether b is already its own canonical representative,
// i.e. b <= N/2.
func (grp *Group) IsReduced(b *big.Int) bool {
	return b.Sign() >= 0 && b.Cmp(grp.Nh) <= 0
}

// Inv returns b^-1 mod N.
func (grp *Group) Inv(b *big.Int) (*big.Int, error) {
	return bigint.Inverse(b, grp.N)
}

// Inv2 inverts a and b with a single costly inverse: invert a*b, then peel
// each factor back out.
func (grp *Group) Inv2(a, b *big.Int) (aInv, bInv *big.Int, err error) {
	ab := grp.Mul(a, b)
	abInv, err := grp.Inv(ab)
	if err != nil {
		return nil, nil, err
	}
	aInv = grp.Mul(b, abInv)
	bInv = grp.Mul(a, abInv)
	return aInv, bInv, nil
}

// Inv7 inverts seven elements with a single costly inverse via a tree of
// products, peeling each of the seven factors back out from the top.
func (grp *Group) Inv7(b1, b2, b3, b4, b5, b6, b7 *big.Int) (inv [7]*big.Int, err error) {
	b12 := grp.Mul(b1, b2)
	b34 := grp.Mul(b3, b4)
	b56 := grp.Mul(b5, b6)
	b1234 := grp.Mul(b12, b34)
	b123456 := grp.Mul(b1234, b56)
	b1234567 := grp.Mul(b123456, b7)

	topInv, err := grp.Inv(b1234567)
	if err != nil {
		return inv, err
	}

	b123456Inv := grp.Mul(b7, topInv)
	b7Inv := grp.Mul(b123456, topInv)

	b1234Inv := grp.Mul(b56, b123456Inv)
	b56Inv := grp.Mul(b1234, b123456Inv)

	b12Inv := grp.Mul(b34, b1234Inv)
	b34Inv := grp.Mul(b12, b1234Inv)

	b1Inv := grp.Mul(b2, b12Inv)
	b2Inv := grp.Mul(b1, b12Inv)
	b3Inv := grp.Mul(b4, b34Inv)
	b4Inv := grp.Mul(b3, b34Inv)
	b5Inv := grp.Mul(b6, b56Inv)
	b6Inv := grp.Mul(b5, b56Inv)

	return [7]*big.Int{b1Inv, b2Inv, b3Inv, b4Inv, b5Inv, b6Inv, b7Inv}, nil
}

// Pow returns base^e mod N via single-base windowed NAF exponentiation,
// given base's precomputed inverse baseInv.
func (grp *Group) Pow(base, baseInv, e *big.Int, bitlen int) (*big.Int, error) {
	return wnaf.Pow(base, baseInv, grp.N, e, grp.wnafWindow, bitlen)
}

// Pow2 returns b1^e1 * b2^e2 mod N via double-base windowed NAF
// exponentiation sharing one accumulator's squarings (Shamir's trick).
func (grp *Group) Pow2(b1, b1Inv, e1, b2, b2Inv, e2 *big.Int, bitlen int) (*big.Int, error) {
	return wnaf.Pow2(b1, b1Inv, e1, b2, b2Inv, e2, grp.N, grp.wnafWindow, bitlen)
}

// PowGH returns g^e1 * h^e2 mod N via the precomputed fixed-base combs.
func (grp *Group) PowGH(e1, e2 *big.Int) (*big.Int, error) {
	return comb.PowGH(grp.gCombs, grp.hCombs, e1, e2, grp.N)
}

// GInv and HInv expose the generators' precomputed inverses for callers
// that build their own wNAF engines against g or h directly.
func (grp *Group) GInv() *big.Int { return grp.gInv }
func (grp *Group) HInv() *big.Int { return grp.hInv }
