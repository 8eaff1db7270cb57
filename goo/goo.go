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

// Package goo is the public surface of the airdrop/claim signature scheme:
// construct a Group over the fixed public GUO parameters, draw a claim seed,
// commit to an RSA public key, and sign or verify a zero-knowledge proof of
// its factorization. It glues crypto/guo, crypto/goosig, crypto/rsasanity
// and crypto/recovery behind the five verbs spec.md §6 names.
package goo

import (
	"crypto/rand"
	"crypto/rsa"
	"math/big"

	"github.com/getamis/sirius/log"

	"github.com/goo-zkp/goo/crypto/goosig"
	"github.com/goo-zkp/goo/crypto/guo"
	"github.com/goo-zkp/goo/crypto/params"
	"github.com/goo-zkp/goo/crypto/recovery"
	"github.com/goo-zkp/goo/crypto/rsasanity"
)

// Mode selects which comb tiers a Group precomputes. A prover needs the full
// set Sign's quotient commitments reach for; a verifier only ever drives
// wNAF/comb calls bounded by ell, at most 128 bits, so it gets by with a
// single small tier.
type Mode int

const (
	// ProverMode builds every comb tier Sign needs.
	ProverMode Mode = iota
	// VerifierMode builds only the small CHAL_BITS-scale tier Verify needs.
	VerifierMode
)

func combBitsFor(mode Mode) []int {
	if mode == VerifierMode {
		return []int{params.ChalBits + 1}
	}
	return []int{params.ExponentSize + 1, params.LargeExpBits}
}

// Group is the fixed public GUO instance (N, g, h) that every claim in a
// given deployment is proven over, bundled with the comb machinery a Signer
// or Verifier built on it will need.
type Group struct {
	grp      *guo.Group
	signer   *goosig.Signer
	verifier *goosig.Verifier
}

// New constructs a Group over the RSA-shaped GUO modulus encoded in nBytes
// (big-endian), with generators g and h. mode controls how much comb
// precomputation happens; pass logger as log.Discard() for silence.
func New(nBytes []byte, g, h uint32, mode Mode, logger log.Logger) (*Group, error) {
	N := new(big.Int).SetBytes(nBytes)
	grp, err := guo.New(N, big.NewInt(int64(g)), big.NewInt(int64(h)), combBitsFor(mode))
	if err != nil {
		return nil, err
	}
	return &Group{
		grp:      grp,
		signer:   goosig.NewSigner(grp, logger),
		verifier: goosig.NewVerifier(grp, logger),
	}, nil
}

// Size returns the byte width of this Group's canonical group elements
// (C1 among them).
func (g *Group) Size() int {
	return g.grp.Size
}

// Generate draws a fresh 32-byte claim seed s'.
func (g *Group) Generate() ([]byte, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

func padded(x *big.Int, width int) []byte {
	buf := make([]byte, width)
	b := x.Bytes()
	copy(buf[width-len(b):], b)
	return buf
}

// Challenge computes the commitment C1 = reduce(g^n * h^s) binding a claim
// seed s' to an RSA public key's modulus n, returning it as a Group.Size
// byte string.
func (g *Group) Challenge(sPrime []byte, pub *rsa.PublicKey) ([]byte, error) {
	sVal, err := goosig.ExpandSPrime(sPrime)
	if err != nil {
		return nil, err
	}
	c1, err := g.grp.PowGH(pub.N, sVal)
	if err != nil {
		return nil, err
	}
	return padded(g.grp.Reduce(c1), g.grp.Size), nil
}

// Validate reports whether c1 is the commitment Challenge would compute for
// s' and priv's public modulus — i.e. whether priv is the key behind a
// previously published claim, without running the full proof protocol.
// A failure to recompute the commitment yields false rather than an error.
func (g *Group) Validate(sPrime, c1 []byte, priv *rsa.PrivateKey) (bool, error) {
	want, err := g.Challenge(sPrime, &priv.PublicKey)
	if err != nil {
		return false, nil
	}
	return constantTimeEqual(want, c1), nil
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

// Sign builds a serialized proof binding msg to knowledge of priv's RSA
// factorization, for the claim seed s'. priv must hold exactly two primes
// (the common, non-multi-prime RSA case).
func (g *Group) Sign(msg, sPrime []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if len(priv.Primes) != 2 {
		return nil, rsasanity.ErrNonPrimeFactor
	}
	sig, err := g.signer.Sign(msg, sPrime, priv.Primes[0], priv.Primes[1])
	if err != nil {
		return nil, err
	}
	return goosig.Marshal(sig, g.grp.Size)
}

// Verify reports whether sigBytes is a valid proof binding msg to the
// commitment c1. Any malformed input collapses to false, never an error.
func (g *Group) Verify(msg, sigBytes, c1 []byte) bool {
	if len(c1) != g.grp.Size {
		return false
	}
	return g.verifier.Verify(msg, sigBytes, new(big.Int).SetBytes(c1))
}

// SealRecovery wraps the claim seed and RSA factorization for offline
// storage, encrypted to custodianPub — the "RSA encryption of the recovery
// blob" collaborator spec.md §1 names as out of scope for the core engine.
func (g *Group) SealRecovery(custodianPub *rsa.PublicKey, sPrime []byte, priv *rsa.PrivateKey) (*recovery.Blob, error) {
	if len(priv.Primes) != 2 {
		return nil, rsasanity.ErrNonPrimeFactor
	}
	return recovery.Seal(custodianPub, sPrime, priv.Primes[0].Bytes(), priv.Primes[1].Bytes())
}

// OpenRecovery is the inverse of SealRecovery, run by the custodian holding
// the matching private key.
func OpenRecovery(custodianPriv *rsa.PrivateKey, blob *recovery.Blob) (sPrime, p, q []byte, err error) {
	return recovery.Open(custodianPriv, blob)
}
