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

// Package goosig implements the zero-knowledge proof of knowledge of RSA
// factorization: the Signer that builds a proof over (p, q) bound to a
// message, and the Verifier that checks one against a committed C1.
// Grounded on crypto/zkproof/integerfactorization.go's
// commit/challenge/response shape, generalized from that package's
// elliptic-curve-adjacent group to the GUO quotient group in crypto/guo.
package goosig

import "math/big"

// Signature is the immutable output of a successful Sign call: the prover's
// second and third commitments, the chosen small prime t, the Fiat-Shamir
// challenge and quotient prime ell, the four quotient commitments, the
// signed integer quotient Eq, and the eight reduced responses z'.
type Signature struct {
	C2, C3   *big.Int
	T        uint32
	Chal     *big.Int
	Ell      *big.Int
	Aq       *big.Int
	Bq       *big.Int
	Cq       *big.Int
	Dq       *big.Int
	Eq       *big.Int
	ZW       *big.Int
	ZW2      *big.Int
	ZS1      *big.Int
	ZA       *big.Int
	ZAN      *big.Int
	ZS1W     *big.Int
	ZSA      *big.Int
	ZS2      *big.Int
}
