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
	"crypto/sha256"
	"math/big"

	"github.com/getamis/sirius/log"
	"golang.org/x/crypto/hkdf"

	"github.com/goo-zkp/goo/crypto/bigint"
	"github.com/goo-zkp/goo/crypto/guo"
	"github.com/goo-zkp/goo/crypto/params"
	"github.com/goo-zkp/goo/crypto/primetable"
	"github.com/goo-zkp/goo/crypto/rsasanity"
	"github.com/goo-zkp/goo/crypto/transcript"
)

// ellInnerRetryLimit bounds the inner re-roll loop (redraw r_s1 and A) before
// the signer gives up and redraws every first-move random, and
// ellOuterRetryLimit bounds the outer loop (redraw everything) before failing
// outright.
const (
	ellInnerRetryLimit = 64
	ellOuterRetryLimit = 8
)

// Signer builds proofs of knowledge of an RSA factorization over a fixed
// GUO group.
type Signer struct {
	Group  *guo.Group
	Logger log.Logger
}

// NewSigner constructs a Signer over grp, logging to logger (pass
// log.Discard() for silence).
func NewSigner(grp *guo.Group, logger log.Logger) *Signer {
	return &Signer{Group: grp, Logger: logger}
}

// expandSPrime stretches a 32-byte claim seed into a uniform EXPONENT_SIZE-
// bit scalar via HKDF, the same construction the transcript package uses
// for its own bit draws.
func expandSPrime(seed []byte) (*big.Int, error) {
	byteLen := (params.ExponentSize + 7) / 8
	buf := make([]byte, byteLen)
	r := hkdf.Expand(sha256.New, seed, []byte("goo-expand-sprime"))
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(buf), nil
}

// ExpandSPrime is the exported form of expandSPrime, for callers (such as the
// top-level Group) that need to recompute C1 independently of a Sign call.
func ExpandSPrime(seed []byte) (*big.Int, error) {
	return expandSPrime(seed)
}

// modSqrtN returns every square root of t modulo n = p*q: the four roots
// mod p*q have square p.ModSqrt's two mod-p sign choices combined with
// q.ModSqrt's two mod-q sign choices via CRT, per spec.md's "combine via
// CRT, lifting sign choices" step.
func modSqrtN(t, p, q *big.Int) ([]*big.Int, bool) {
	rp, err := bigint.ModSqrt(t, p)
	if err != nil {
		return nil, false
	}
	rq, err := bigint.ModSqrt(t, q)
	if err != nil {
		return nil, false
	}
	negRp := new(big.Int).Mod(new(big.Int).Neg(rp), p)
	negRq := new(big.Int).Mod(new(big.Int).Neg(rq), q)

	roots := make([]*big.Int, 0, 4)
	for _, a := range []*big.Int{rp, negRp} {
		for _, b := range []*big.Int{rq, negRq} {
			w, err := bigint.CRT(a, p, b, q)
			if err != nil {
				return nil, false
			}
			roots = append(roots, w)
		}
	}
	return roots, true
}

// firstMove holds the randomness drawn at the start of each signing
// attempt, dropped once the signature is emitted.
type firstMove struct {
	rW, rW2, rA, rAN, rS1W, rSA, rS2 *big.Int
	rS1                              *big.Int
	e                                *big.Int
}

func (s *Signer) drawExponent() (*big.Int, error) {
	return s.Group.Rand.RandomBits(params.ExponentSize)
}

func (s *Signer) drawFirstMove() (*firstMove, error) {
	vals := make([]*big.Int, 7)
	for i := range vals {
		v, err := s.drawExponent()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	fm := &firstMove{rW: vals[0], rW2: vals[1], rA: vals[2], rAN: vals[3], rS1W: vals[4], rSA: vals[5], rS2: vals[6]}
	// Ensure E := r_w2 - r_an >= 0 by swapping if needed.
	if fm.rW2.Cmp(fm.rAN) < 0 {
		fm.rW2, fm.rAN = fm.rAN, fm.rW2
	}
	fm.e = new(big.Int).Sub(fm.rW2, fm.rAN)
	return fm, nil
}

// Sign produces a proof binding msg to knowledge of p, q for the claim seed
// sPrimeSeed, given the claimed RSA factorization (p, q).
func (s *Signer) Sign(msg []byte, sPrimeSeed []byte, p, q *big.Int) (*Signature, error) {
	n := new(big.Int).Mul(p, q)
	if err := rsasanity.CheckFactorization(p, q); err != nil {
		return nil, err
	}

	sVal, err := expandSPrime(sPrimeSeed)
	if err != nil {
		return nil, err
	}

	t, w, err := s.findQuadraticResidue(n, p, q)
	if err != nil {
		return nil, err
	}

	wSq := new(big.Int).Mul(w, w)
	numerator := new(big.Int).Sub(wSq, big.NewInt(int64(t)))
	a, rem := bigint.FloorDivMod(numerator, n)
	if rem.Sign() != 0 {
		return nil, ErrInvalidSignature
	}
	// findQuadraticResidue only ever returns a w with w^2 >= t, so a is
	// never negative here.

	s1, err := s.drawExponent()
	if err != nil {
		return nil, err
	}
	s2, err := s.drawExponent()
	if err != nil {
		return nil, err
	}

	C1, err := s.Group.PowGH(n, sVal)
	if err != nil {
		return nil, err
	}
	C1 = s.Group.Reduce(C1)
	C2, err := s.Group.PowGH(w, s1)
	if err != nil {
		return nil, err
	}
	C2 = s.Group.Reduce(C2)
	C3, err := s.Group.PowGH(a, s2)
	if err != nil {
		return nil, err
	}
	C3 = s.Group.Reduce(C3)

	C1Inv, C2Inv, err := s.Group.Inv2(C1, C2)
	if err != nil {
		return nil, err
	}

	tp := transcript.Params{N: s.Group.N, G: uint32(s.Group.G.Uint64()), H: uint32(s.Group.H.Uint64()), ModBytes: s.Group.Size}

	for outer := 0; outer < ellOuterRetryLimit; outer++ {
		fm, err := s.drawFirstMove()
		if err != nil {
			return nil, err
		}

		B, err := s.Group.PowGH(fm.rA, fm.rS2)
		if err != nil {
			return nil, err
		}
		B = s.Group.Reduce(B)

		cVar, err := s.Group.Pow(C2Inv, C2, fm.rW, params.ExponentSize+1)
		if err != nil {
			return nil, err
		}
		cFixed, err := s.Group.PowGH(fm.rW2, fm.rS1W)
		if err != nil {
			return nil, err
		}
		C := s.Group.Reduce(s.Group.Mul(cVar, cFixed))

		dVar, err := s.Group.Pow(C1Inv, C1, fm.rA, params.ExponentSize+1)
		if err != nil {
			return nil, err
		}
		dFixed, err := s.Group.PowGH(fm.rAN, fm.rSA)
		if err != nil {
			return nil, err
		}
		D := s.Group.Reduce(s.Group.Mul(dVar, dFixed))

		ell, chal, _, _, rS1, found := s.rerollA(tp, C1, C2, C3, t, B, C, D, fm, msg)
		if !found {
			s.Logger.Warn("ell retry budget exhausted, redrawing first-move randomness", "outer", outer)
			continue
		}

		zW := new(big.Int).Add(new(big.Int).Mul(chal, w), fm.rW)
		zW2 := new(big.Int).Add(new(big.Int).Mul(chal, wSq), fm.rW2)
		zS1 := new(big.Int).Add(new(big.Int).Mul(chal, s1), rS1)
		zA := new(big.Int).Add(new(big.Int).Mul(chal, a), fm.rA)
		zAN := new(big.Int).Add(new(big.Int).Mul(chal, new(big.Int).Mul(a, n)), fm.rAN)
		zS1W := new(big.Int).Add(new(big.Int).Mul(chal, new(big.Int).Mul(s1, w)), fm.rS1W)
		zSA := new(big.Int).Add(new(big.Int).Mul(chal, new(big.Int).Mul(sVal, a)), fm.rSA)
		zS2 := new(big.Int).Add(new(big.Int).Mul(chal, s2), fm.rS2)

		qW := bigint.Div(zW, ell)
		qS1 := bigint.Div(zS1, ell)
		Aq, err := s.Group.PowGH(qW, qS1)
		if err != nil {
			return nil, err
		}
		Aq = s.Group.Reduce(Aq)

		qA := bigint.Div(zA, ell)
		qS2 := bigint.Div(zS2, ell)
		Bq, err := s.Group.PowGH(qA, qS2)
		if err != nil {
			return nil, err
		}
		Bq = s.Group.Reduce(Bq)

		qW2 := bigint.Div(zW2, ell)
		qS1W := bigint.Div(zS1W, ell)
		cqVar, err := s.Group.Pow(C2Inv, C2, qW, params.LargeExpBits)
		if err != nil {
			return nil, err
		}
		cqFixed, err := s.Group.PowGH(qW2, qS1W)
		if err != nil {
			return nil, err
		}
		Cq := s.Group.Reduce(s.Group.Mul(cqVar, cqFixed))

		qAN := bigint.Div(zAN, ell)
		qSA := bigint.Div(zSA, ell)
		dqVar, err := s.Group.Pow(C1Inv, C1, qA, params.LargeExpBits)
		if err != nil {
			return nil, err
		}
		dqFixed, err := s.Group.PowGH(qAN, qSA)
		if err != nil {
			return nil, err
		}
		Dq := s.Group.Reduce(s.Group.Mul(dqVar, dqFixed))

		Eq := bigint.Div(new(big.Int).Sub(zW2, zAN), ell)
		if Eq.Sign() < 0 || Eq.BitLen() > params.ExponentSize {
			return nil, ErrOverflow
		}

		sig := &Signature{
			C2: C2, C3: C3, T: t, Chal: chal, Ell: ell,
			Aq: Aq, Bq: Bq, Cq: Cq, Dq: Dq, Eq: Eq,
			ZW:   bigint.Mod(zW, ell),
			ZW2:  bigint.Mod(zW2, ell),
			ZS1:  bigint.Mod(zS1, ell),
			ZA:   bigint.Mod(zA, ell),
			ZAN:  bigint.Mod(zAN, ell),
			ZS1W: bigint.Mod(zS1W, ell),
			ZSA:  bigint.Mod(zSA, ell),
			ZS2:  bigint.Mod(zS2, ell),
		}
		return sig, nil
	}

	return nil, ErrEllRetryExhausted
}

// findQuadraticResidue scans the small-prime table for the first t with a
// square root w modulo n = p*q satisfying w^2 >= t, trying every sign-lifted
// CRT root before moving to the next t, so a root that merely happens to
// reduce to a small representative doesn't cost the proof a usable residue.
func (s *Signer) findQuadraticResidue(n, p, q *big.Int) (uint32, *big.Int, error) {
	for _, t := range primetable.SmallPrimes {
		tBig := big.NewInt(int64(t))
		roots, ok := modSqrtN(tBig, p, q)
		if !ok {
			continue
		}
		for _, w := range roots {
			wSq := new(big.Int).Mul(w, w)
			if wSq.Cmp(tBig) >= 0 {
				return t, w, nil
			}
		}
	}
	return 0, nil, ErrNoQR
}

// rerollA repeatedly draws fresh r_s1 and A and re-derives the Fiat-Shamir
// challenge until ell comes out exactly 128 bits, bounded by
// ellInnerRetryLimit attempts.
func (s *Signer) rerollA(tp transcript.Params, C1, C2, C3 *big.Int, t uint32, B, C, D *big.Int, fm *firstMove, msg []byte) (ell, chal *big.Int, key [32]byte, A, rS1 *big.Int, ok bool) {
	for i := 0; i < ellInnerRetryLimit; i++ {
		var err error
		rS1, err = s.drawExponent()
		if err != nil {
			return nil, nil, key, nil, nil, false
		}
		A, err = s.Group.PowGH(fm.rW, rS1)
		if err != nil {
			return nil, nil, key, nil, nil, false
		}
		A = s.Group.Reduce(A)

		ch, err := transcript.FSChal(tp, C1, C2, C3, t, A, B, C, D, fm.e, msg, false, primetableOracle{})
		if err != nil {
			return nil, nil, key, nil, nil, false
		}
		if ch.Ell.BitLen() == 128 {
			return ch.Ell, ch.Chal, ch.Key, A, rS1, true
		}
	}
	return nil, nil, key, nil, nil, false
}

type primetableOracle struct{}

func (primetableOracle) NextPrime(seed *big.Int, key []byte, maxGap int) (*big.Int, error) {
	return primetable.NextPrime(seed, key, maxGap)
}
