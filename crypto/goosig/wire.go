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
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/goo-zkp/goo/crypto/params"
)

// ErrMalformedSignature is returned when a signature's byte encoding has the
// wrong length or an out-of-range field.
var ErrMalformedSignature = errors.New("goosig: malformed signature")

const (
	scalar128Len = 16
	tFieldLen    = 4
)

// eqMagnitudeLen is the byte width of Eq's magnitude: ceil(EXPONENT_SIZE/8).
// Eq's wire encoding is one sign byte followed by this many magnitude bytes,
// for ceil((EXPONENT_SIZE+1)/8) bytes overall — this module's chosen
// convention is sign-magnitude, with the sign byte always zero since Eq is
// non-negative by construction; a signature with a set sign byte is
// rejected outright rather than interpreted as negative.
const eqMagnitudeLen = (params.ExponentSize + 7) / 8
const eqFieldLen = 1 + eqMagnitudeLen

// Size returns the total byte length of a marshaled signature for a GUO
// modulus whose canonical elements occupy modBytes bytes each.
func Size(modBytes int) int {
	return 6*modBytes + tFieldLen + 2*scalar128Len + eqFieldLen + 8*scalar128Len
}

func putBig(buf []byte, x *big.Int, width int) error {
	if x.Sign() < 0 {
		return ErrMalformedSignature
	}
	b := x.Bytes()
	if len(b) > width {
		return ErrMalformedSignature
	}
	copy(buf[width-len(b):width], b)
	return nil
}

// Marshal encodes sig into the fixed-width wire format: C2 ‖ C3 ‖ t ‖ chal ‖
// ell ‖ Aq ‖ Bq ‖ Cq ‖ Dq ‖ Eq ‖ z_w ‖ z_w2 ‖ z_s1 ‖ z_a ‖ z_an ‖ z_s1w ‖
// z_sa ‖ z_s2, with group elements occupying modBytes bytes each.
func Marshal(sig *Signature, modBytes int) ([]byte, error) {
	out := make([]byte, Size(modBytes))
	off := 0

	groupElems := []*big.Int{sig.C2, sig.C3}
	for _, e := range groupElems {
		if err := putBig(out[off:off+modBytes], e, modBytes); err != nil {
			return nil, err
		}
		off += modBytes
	}

	binary.BigEndian.PutUint32(out[off:off+tFieldLen], sig.T)
	off += tFieldLen

	for _, e := range []*big.Int{sig.Chal, sig.Ell} {
		if err := putBig(out[off:off+scalar128Len], e, scalar128Len); err != nil {
			return nil, err
		}
		off += scalar128Len
	}

	for _, e := range []*big.Int{sig.Aq, sig.Bq, sig.Cq, sig.Dq} {
		if err := putBig(out[off:off+modBytes], e, modBytes); err != nil {
			return nil, err
		}
		off += modBytes
	}

	if sig.Eq.Sign() < 0 {
		return nil, ErrMalformedSignature
	}
	out[off] = 0 // sign byte: always non-negative
	if err := putBig(out[off+1:off+eqFieldLen], sig.Eq, eqMagnitudeLen); err != nil {
		return nil, err
	}
	off += eqFieldLen

	for _, e := range []*big.Int{sig.ZW, sig.ZW2, sig.ZS1, sig.ZA, sig.ZAN, sig.ZS1W, sig.ZSA, sig.ZS2} {
		if err := putBig(out[off:off+scalar128Len], e, scalar128Len); err != nil {
			return nil, err
		}
		off += scalar128Len
	}

	return out, nil
}

// Unmarshal decodes a signature from its fixed-width wire format. Returns
// ErrMalformedSignature on any length mismatch or a set Eq sign byte.
func Unmarshal(data []byte, modBytes int) (*Signature, error) {
	if len(data) != Size(modBytes) {
		return nil, ErrMalformedSignature
	}
	off := 0
	readGroup := func(width int) *big.Int {
		v := new(big.Int).SetBytes(data[off : off+width])
		off += width
		return v
	}

	sig := &Signature{}
	sig.C2 = readGroup(modBytes)
	sig.C3 = readGroup(modBytes)
	sig.T = binary.BigEndian.Uint32(data[off : off+tFieldLen])
	off += tFieldLen
	sig.Chal = readGroup(scalar128Len)
	sig.Ell = readGroup(scalar128Len)
	sig.Aq = readGroup(modBytes)
	sig.Bq = readGroup(modBytes)
	sig.Cq = readGroup(modBytes)
	sig.Dq = readGroup(modBytes)

	if data[off] != 0 {
		return nil, ErrMalformedSignature
	}
	off++
	sig.Eq = new(big.Int).SetBytes(data[off : off+eqMagnitudeLen])
	off += eqMagnitudeLen

	sig.ZW = readGroup(scalar128Len)
	sig.ZW2 = readGroup(scalar128Len)
	sig.ZS1 = readGroup(scalar128Len)
	sig.ZA = readGroup(scalar128Len)
	sig.ZAN = readGroup(scalar128Len)
	sig.ZS1W = readGroup(scalar128Len)
	sig.ZSA = readGroup(scalar128Len)
	sig.ZS2 = readGroup(scalar128Len)

	return sig, nil
}
