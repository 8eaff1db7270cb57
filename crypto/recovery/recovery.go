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

// Package recovery seals the prover's claim secret (s', the factorization
// witness) under an auxiliary RSA public key so a claimant can hand an
// airdrop operator an encrypted recovery blob alongside the proof, without
// the operator ever learning the secret unless the claimant later discloses
// it. Hybrid envelope: the payload is AES-GCM encrypted under a random
// per-blob key, and only that key is wrapped with RSA-OAEP, since an RSA
// factor can be too large to fit directly under OAEP's own message-size
// ceiling. Pure envelope encryption, not part of the GUO proof engine, so it
// has no dependency on the rest of the module.
package recovery

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
)

// ErrTruncated is returned when a sealed payload is shorter than its own
// length-prefixed framing claims.
var ErrTruncated = errors.New("recovery: truncated payload")

// Blob is a sealed recovery envelope: an RSA-OAEP-wrapped AES-256 key, and
// the AES-GCM nonce and ciphertext of the framed (sPrime, p, q) payload.
type Blob struct {
	WrappedKey []byte
	Nonce      []byte
	Ciphertext []byte
}

func frame(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p)))
		out = append(out, lenBuf[:]...)
		out = append(out, p...)
	}
	return out
}

func unframe(buf []byte, n int) ([][]byte, error) {
	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if len(buf) < 4 {
			return nil, ErrTruncated
		}
		l := binary.BigEndian.Uint32(buf[:4])
		buf = buf[4:]
		if uint32(len(buf)) < l {
			return nil, ErrTruncated
		}
		out = append(out, buf[:l])
		buf = buf[l:]
	}
	return out, nil
}

// Seal encrypts sPrime, p and q under pub: a fresh AES-256 key encrypts the
// framed payload under AES-GCM, and that key is wrapped with RSA-OAEP.
func Seal(pub *rsa.PublicKey, sPrime, p, q []byte) (*Blob, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	plaintext := frame(sPrime, p, q)
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, err
	}
	return &Blob{WrappedKey: wrappedKey, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// Open decrypts a Blob with the holder's private key, recovering the claim
// seed and the RSA factors.
func Open(priv *rsa.PrivateKey, blob *Blob) (sPrime, p, q []byte, err error) {
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, blob.WrappedKey, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, nil, err
	}
	plaintext, err := gcm.Open(nil, blob.Nonce, blob.Ciphertext, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	parts, err := unframe(plaintext, 3)
	if err != nil {
		return nil, nil, nil, err
	}
	return parts[0], parts[1], parts[2], nil
}
