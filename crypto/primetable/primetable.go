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

// Package primetable supplies the small-prime table the signer scans for a
// quadratic residue and the is_prime/next_prime oracle the Fiat-Shamir
// transcript uses to pick ell. Grounded on the small-prime tables in
// crypto/utils/prime.go and crypto/rsaMPC/rsa.go, trimmed to a flat table
// since this package doesn't need the biprimality-test machinery those
// carry.
package primetable

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// ErrNoPrimeInRange is returned when no prime exists in [seed, seed+maxGap].
var ErrNoPrimeInRange = errors.New("primetable: no prime in range")

// SmallPrimes is the fixed table the signer walks looking for a t with a
// quadratic residue modulo N. Odd primes only; 2 is never a useful witness
// since N is odd.
var SmallPrimes = buildSmallPrimes()

func buildSmallPrimes() []uint32 {
	const limit = 4000
	sieve := make([]bool, limit+1)
	var out []uint32
	for i := 3; i <= limit; i += 2 {
		if sieve[i] {
			continue
		}
		out = append(out, uint32(i))
		for j := i * i; j <= limit; j += 2 * i {
			sieve[j] = true
		}
	}
	return out
}

// millerRabinRounds is the number of Miller-Rabin witnesses drawn per
// candidate, on top of the small-prime trial division below.
const millerRabinRounds = 20

var (
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
)

// IsPrime reports whether x is prime. key seeds the Miller-Rabin witnesses
// via HKDF, so the same (x, key) pair always yields the same verdict across
// platforms, and a party choosing x cannot steer the witnesses used to test
// it — they're bound to key, not to x alone.
func IsPrime(x *big.Int, key []byte) bool {
	if x.Cmp(bigTwo) < 0 {
		return false
	}
	if x.Cmp(bigTwo) == 0 {
		return true
	}
	if x.Bit(0) == 0 {
		return false
	}
	for _, p := range SmallPrimes {
		pb := new(big.Int).SetUint64(uint64(p))
		if x.Cmp(pb) == 0 {
			return true
		}
		if new(big.Int).Mod(x, pb).Sign() == 0 {
			return false
		}
	}
	return millerRabin(x, key, millerRabinRounds)
}

// millerRabin runs rounds of the Miller-Rabin test against x, drawing each
// witness deterministically from key via HKDF. x is assumed odd and already
// past small-prime trial division.
func millerRabin(x *big.Int, key []byte, rounds int) bool {
	d := new(big.Int).Sub(x, bigOne)
	r := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		r++
	}
	xMinusOne := new(big.Int).Sub(x, bigOne)
	xMinusThree := new(big.Int).Sub(x, bigThree)
	for round := 0; round < rounds; round++ {
		a := witnessBase(x, xMinusThree, key, round)
		y := new(big.Int).Exp(a, d, x)
		if y.Cmp(bigOne) == 0 || y.Cmp(xMinusOne) == 0 {
			continue
		}
		composite := true
		for i := 0; i < r-1; i++ {
			y.Exp(y, bigTwo, x)
			if y.Cmp(xMinusOne) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// witnessBase deterministically derives a base in [2, x-2] for the given
// round, expanding key via HKDF with x and the round number as context so
// distinct (x, round) pairs never collide on the same witness.
func witnessBase(x, xMinusThree *big.Int, key []byte, round int) *big.Int {
	info := append([]byte("goo-primetable-witness:"), x.Bytes()...)
	info = append(info, byte(round>>24), byte(round>>16), byte(round>>8), byte(round))
	out := make([]byte, (x.BitLen()/8)+16)
	hkdf.Expand(sha256.New, key, info).Read(out)
	base := new(big.Int).SetBytes(out)
	if xMinusThree.Sign() > 0 {
		base.Mod(base, xMinusThree)
	} else {
		base.SetInt64(0)
	}
	return base.Add(base, bigTwo)
}

// NextPrime returns the smallest prime in [seed, seed+maxGap], seeding the
// underlying primality checks from key. Returns ErrNoPrimeInRange if none is
// found within the gap.
func NextPrime(seed *big.Int, key []byte, maxGap int) (*big.Int, error) {
	if seed.Sign() < 0 {
		return nil, errors.New("primetable: negative seed")
	}
	candidate := new(big.Int).Set(seed)
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, big.NewInt(1))
	}
	limit := new(big.Int).Add(seed, big.NewInt(int64(maxGap)))
	for candidate.Cmp(limit) <= 0 {
		if IsPrime(candidate, key) {
			return candidate, nil
		}
		candidate.Add(candidate, big.NewInt(2))
	}
	return nil, ErrNoPrimeInRange
}
