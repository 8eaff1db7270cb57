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

	"github.com/getamis/sirius/log"

	"github.com/goo-zkp/goo/crypto/guo"
	"github.com/goo-zkp/goo/crypto/params"
	"github.com/goo-zkp/goo/crypto/primetable"
	"github.com/goo-zkp/goo/crypto/transcript"
)

// reconstructionBits bounds the wNAF digit buffer used to reconstruct
// A, B, C, D: every exponent involved is at most 128 bits — ell and chal by
// their wire width and rangeCheck, and each reduced z' response by being
// smaller than ell.
const reconstructionBits = params.ChalBits + 1

// Verifier checks proofs of knowledge of an RSA factorization over a fixed
// GUO group.
type Verifier struct {
	Group  *guo.Group
	Logger log.Logger
}

// NewVerifier constructs a Verifier over grp, logging to logger (pass
// log.Discard() for silence).
func NewVerifier(grp *guo.Group, logger log.Logger) *Verifier {
	return &Verifier{Group: grp, Logger: logger}
}

// Verify reports whether sigBytes is a valid proof binding msg to the
// commitment C1. Any malformed field, range violation, or failed predicate
// yields false; Verify never panics on attacker-controlled input.
func (v *Verifier) Verify(msg []byte, sigBytes []byte, C1 *big.Int) bool {
	sig, err := Unmarshal(sigBytes, v.Group.Size)
	if err != nil {
		v.Logger.Warn("malformed signature", "err", err)
		return false
	}
	ok, err := v.verify(msg, sig, C1)
	if err != nil {
		v.Logger.Warn("verification error", "err", err)
		return false
	}
	return ok
}

func (v *Verifier) verify(msg []byte, sig *Signature, C1 *big.Int) (bool, error) {
	if !rangeCheck(sig) {
		return false, nil
	}
	if !tInTable(sig.T) {
		return false, nil
	}
	for _, e := range []*big.Int{C1, sig.C2, sig.C3, sig.Aq, sig.Bq, sig.Cq, sig.Dq} {
		if !v.Group.IsReduced(e) {
			return false, nil
		}
	}

	inv, err := v.Group.Inv7(C1, sig.C2, sig.C3, sig.Aq, sig.Bq, sig.Cq, sig.Dq)
	if err != nil {
		return false, nil
	}
	C1Inv, C2Inv, C3Inv := inv[0], inv[1], inv[2]
	AqInv, BqInv, CqInv, DqInv := inv[3], inv[4], inv[5], inv[6]

	A, err := v.reconstruct(sig.Aq, AqInv, sig.Ell, C2Inv, sig.C2, sig.Chal, sig.ZW, sig.ZS1)
	if err != nil {
		return false, nil
	}
	B, err := v.reconstruct(sig.Bq, BqInv, sig.Ell, C3Inv, sig.C3, sig.Chal, sig.ZA, sig.ZS2)
	if err != nil {
		return false, nil
	}
	C, err := v.reconstruct(sig.Cq, CqInv, sig.Ell, C2Inv, sig.C2, sig.ZW, sig.ZW2, sig.ZS1W)
	if err != nil {
		return false, nil
	}
	D, err := v.reconstruct(sig.Dq, DqInv, sig.Ell, C1Inv, C1, sig.ZA, sig.ZAN, sig.ZSA)
	if err != nil {
		return false, nil
	}

	delta := new(big.Int).Sub(sig.ZW2, sig.ZAN)
	E := new(big.Int).Add(new(big.Int).Mul(sig.Eq, sig.Ell), delta)
	E.Sub(E, new(big.Int).Mul(big.NewInt(int64(sig.T)), sig.Chal))
	if delta.Sign() < 0 {
		E.Add(E, sig.Ell)
	}
	if E.Sign() < 0 {
		return false, nil
	}

	tp := transcript.Params{N: v.Group.N, G: uint32(v.Group.G.Uint64()), H: uint32(v.Group.H.Uint64()), ModBytes: v.Group.Size}
	ch, err := transcript.FSChal(tp, C1, sig.C2, sig.C3, sig.T, A, B, C, D, E, msg, true, primetableOracle{})
	if err != nil {
		return false, nil
	}

	if ch.Chal.Cmp(sig.Chal) != 0 {
		return false, nil
	}
	diff := new(big.Int).Sub(sig.Ell, ch.Ell)
	if diff.Sign() < 0 || diff.Cmp(big.NewInt(params.ElldiffMax)) > 0 {
		return false, nil
	}
	if !primetable.IsPrime(sig.Ell, ch.Key[:]) {
		return false, nil
	}

	return true, nil
}

// reconstruct computes reduce( q^exp * (varBase)^varExp * g^fixed1 [* h^fixed2] ),
// the shape common to A, B, C, D: a quotient commitment raised to ell, times
// one variable-base factor via double-base wNAF, times a fixed-base (g, h)
// term via the comb. When only one fixed exponent is given the h exponent
// is treated as 0.
func (v *Verifier) reconstruct(q, qInv, ellExp, varBase, varBaseInv, varExp *big.Int, fixedExps ...*big.Int) (*big.Int, error) {
	variable, err := v.Group.Pow2(q, qInv, ellExp, varBase, varBaseInv, varExp, reconstructionBits)
	if err != nil {
		return nil, err
	}
	var e1, e2 *big.Int
	switch len(fixedExps) {
	case 1:
		e1, e2 = fixedExps[0], big.NewInt(0)
	case 2:
		e1, e2 = fixedExps[0], fixedExps[1]
	default:
		return nil, ErrInvalidSignature
	}
	fixed, err := v.Group.PowGH(e1, e2)
	if err != nil {
		return nil, err
	}
	return v.Group.Reduce(v.Group.Mul(variable, fixed)), nil
}

func rangeCheck(sig *Signature) bool {
	if sig.Chal.Sign() < 0 || sig.Ell.Sign() < 0 {
		return false
	}
	if sig.Ell.BitLen() > 128 {
		return false
	}
	if sig.Eq.Sign() < 0 || sig.Eq.BitLen() > params.ExponentSize {
		return false
	}
	for _, z := range []*big.Int{sig.ZW, sig.ZW2, sig.ZS1, sig.ZA, sig.ZAN, sig.ZS1W, sig.ZSA, sig.ZS2} {
		if z.Sign() < 0 || z.Cmp(sig.Ell) >= 0 {
			return false
		}
	}
	return true
}

func tInTable(t uint32) bool {
	for _, p := range primetable.SmallPrimes {
		if p == t {
			return true
		}
	}
	return false
}
