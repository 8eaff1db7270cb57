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

// Package transcript assembles the canonical Fiat-Shamir byte transcript the
// signer and verifier must agree on bit-for-bit, hashes it, and expands the
// resulting key into the challenge and prime-seed draws. The hash itself is
// fixed to SHA-256 by the protocol; golang.org/x/crypto/hkdf supplies the
// deterministic bit-stream expansion from that digest, replacing the
// reference's ad hoc "deterministic PRNG" with a standard KDF construction.
package transcript

import (
	"crypto/sha256"
	"errors"
	"io"
	"math/big"

	"github.com/goo-zkp/goo/crypto/params"
	"golang.org/x/crypto/hkdf"
)

// ErrDomain is returned when an input violates a transcript precondition:
// a negative scalar, or a message longer than the fixed message field.
var ErrDomain = errors.New("transcript: domain error")

const msgFieldLen = 64

// PrimeOracle rounds a seed up to the next acceptable prime, used only on
// the prover path to pick ell. Satisfied by crypto/primetable.
type PrimeOracle interface {
	NextPrime(seed *big.Int, key []byte, maxGap int) (*big.Int, error)
}

// Params carries the group-shape fields the transcript must absorb: the
// modulus, the two small generators, and the canonical element width.
type Params struct {
	N       *big.Int
	G, H    uint32
	ModBytes int
}

// Challenge is the output of FSChal: the Fiat-Shamir challenge, the prime
// ell, and the 32-byte transcript key used to seed it.
type Challenge struct {
	Chal *big.Int
	Ell  *big.Int
	Key  [32]byte
}

func leftPad(x *big.Int, size int) ([]byte, error) {
	if x.Sign() < 0 {
		return nil, ErrDomain
	}
	b := x.Bytes()
	if len(b) > size {
		return nil, ErrDomain
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out, nil
}

func uint32Bytes(x uint32) []byte {
	return []byte{byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x)}
}

// buildTranscript assembles the fixed-layout byte string absorbed by the
// hash, per the protocol's transcript format.
func buildTranscript(p Params, C1, C2, C3 *big.Int, t uint32, A, B, C, D *big.Int, E *big.Int, msg []byte) ([]byte, error) {
	if len(msg) > msgFieldLen {
		return nil, ErrDomain
	}

	var buf []byte
	buf = append(buf, params.HashPrefix[:]...)

	nBytes, err := leftPad(p.N, p.ModBytes)
	if err != nil {
		return nil, err
	}
	buf = append(buf, nBytes...)
	buf = append(buf, uint32Bytes(p.G)...)
	buf = append(buf, uint32Bytes(p.H)...)

	for _, elt := range []*big.Int{C1, C2, C3, A, B, C, D} {
		b, err := leftPad(elt, p.ModBytes)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}

	buf = append(buf, uint32Bytes(t)...)

	eBytes, err := leftPad(E, (params.ExponentSize+7)/8)
	if err != nil {
		return nil, err
	}
	buf = append(buf, eBytes...)

	msgPadded := make([]byte, msgFieldLen)
	copy(msgPadded[msgFieldLen-len(msg):], msg)
	buf = append(buf, msgPadded...)

	return buf, nil
}

// drawBits expands key via HKDF into the requested number of uniform random
// bits, in two independent draws (chal then ell_r), matching a PRNG seeded
// once and asked for two fixed-size outputs in sequence.
func drawBits(key []byte, bits int, info string) (*big.Int, error) {
	byteLen := (bits + 7) / 8
	reader := hkdf.Expand(sha256.New, key, []byte(info))
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, err
	}
	extra := byteLen*8 - bits
	if extra > 0 {
		buf[0] &= 0xff >> uint(extra)
	}
	return new(big.Int).SetBytes(buf), nil
}

// FSChal runs the Fiat-Shamir transcript hash and challenge/prime derivation.
// On the prover path (verify=false) ell is rounded up from ell_r to the
// nearest acceptable prime via oracle.NextPrime; on the verifier path
// (verify=true) ell is returned as the raw seed ell_r, for the caller to
// compare against the signature's own ell.
func FSChal(p Params, C1, C2, C3 *big.Int, t uint32, A, B, C, D *big.Int, E *big.Int, msg []byte, verify bool, oracle PrimeOracle) (*Challenge, error) {
	transcriptBytes, err := buildTranscript(p, C1, C2, C3, t, A, B, C, D, E, msg)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(transcriptBytes)

	chal, err := drawBits(digest[:], params.ChalBits, "goo-chal")
	if err != nil {
		return nil, err
	}
	ellR, err := drawBits(digest[:], params.ChalBits, "goo-ell")
	if err != nil {
		return nil, err
	}

	ell := ellR
	if !verify {
		ell, err = oracle.NextPrime(ellR, digest[:], params.ElldiffMax)
		if err != nil {
			return nil, err
		}
	}

	return &Challenge{Chal: chal, Ell: ell, Key: digest}, nil
}
