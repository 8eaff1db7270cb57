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

// Package params holds the public, fixed protocol constants shared by every
// layer of the signature scheme. It has no dependencies on the rest of the
// module so any package may import it without risking an import cycle.
package params

import "crypto/sha256"

const (
	// ChalBits is the bit width of the Fiat-Shamir challenge and of ell's
	// random seed before it is rounded up to the next prime.
	ChalBits = 128
	// ExponentSize is the bit width of the random scalars (nonces, blinding
	// factors) drawn throughout the protocol.
	ExponentSize = 2048
	// ElldiffMax bounds the prime gap the prover is willing to search when
	// rounding ell's seed up to a prime.
	ElldiffMax = 512
	// WindowSize is the wNAF window width used by the variable-base engine.
	WindowSize = 6
	// MinRSABits and MaxRSABits bound the bit length of RSA moduli this
	// scheme will sign a factorization proof for.
	MinRSABits = 1024
	MaxRSABits = 4096
	// MaxCombSize caps the number of group elements a fixed-base comb table
	// may precompute and store.
	MaxCombSize = 512
	// LargeExpBits bounds the widest exponent the fixed-base combs and the
	// variable-base wNAF engine ever have to absorb. The signer's z_w2 and
	// z_an responses carry a chal * w^2 (respectively chal * a * n) term,
	// and both w and a*n can run up to MAX_RSA_BITS bits, so that product
	// can reach 2*MAX_RSA_BITS + CHAL_BITS bits before the first-move
	// randomness or the ell-quotient ever come into it.
	LargeExpBits = 2*MaxRSABits + ChalBits + 16
)

// HashPrefix is the 32-byte domain-separation string absorbed first into
// every Fiat-Shamir transcript, so this scheme's challenges can never collide
// with another protocol's hash-then-sign construction over the same group.
var HashPrefix = sha256.Sum256([]byte("goo-zkpok-of-factorization/fiat-shamir/v1"))
