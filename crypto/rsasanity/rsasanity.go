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

// Package rsasanity performs the bounds and factorization sanity checks the
// signer runs over a claimed RSA key before trying to build a proof over it.
// Grounded on the modulus/prime checks in crypto/rsaMPC/rsa.go, trimmed down
// to the checks this scheme actually needs (it doesn't run a distributed
// biprimality test — it's handed p and q directly).
package rsasanity

import (
	"errors"
	"math/big"

	"github.com/goo-zkp/goo/crypto/params"
)

var (
	// ErrSmallModulus is returned when bit_length(p*q) < MinRSABits.
	ErrSmallModulus = errors.New("rsasanity: modulus too small")
	// ErrLargeModulus is returned when bit_length(p*q) > MaxRSABits.
	ErrLargeModulus = errors.New("rsasanity: modulus too large")
	// ErrNonPrimeFactor is returned when p or q fails a primality check.
	ErrNonPrimeFactor = errors.New("rsasanity: factor is not prime")
	// ErrEqualFactors is returned when p == q.
	ErrEqualFactors = errors.New("rsasanity: p and q must differ")
)

const millerRabinRounds = 20

// CheckModulus verifies that n's bit length falls within
// [params.MinRSABits, params.MaxRSABits].
func CheckModulus(n *big.Int) error {
	bits := n.BitLen()
	if bits < params.MinRSABits {
		return ErrSmallModulus
	}
	if bits > params.MaxRSABits {
		return ErrLargeModulus
	}
	return nil
}

// CheckFactorization verifies that p and q are each prime, distinct, and
// that their product's bit length is in range.
func CheckFactorization(p, q *big.Int) error {
	if p.Cmp(q) == 0 {
		return ErrEqualFactors
	}
	if !p.ProbablyPrime(millerRabinRounds) || !q.ProbablyPrime(millerRabinRounds) {
		return ErrNonPrimeFactor
	}
	return CheckModulus(new(big.Int).Mul(p, q))
}

// EulerPhi returns phi(p*q) = (p-1)*(q-1) for distinct primes p, q.
func EulerPhi(p, q *big.Int) *big.Int {
	pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
	return new(big.Int).Mul(pMinus1, qMinus1)
}
