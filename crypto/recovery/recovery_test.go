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

package recovery

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestRecovery(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "recovery Suite")
}

var _ = Describe("Seal and Open", func() {
	It("round-trips sPrime, p, q through an RSA-OAEP-wrapped AES-GCM envelope", func() {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		Expect(err).To(BeNil())

		sPrime := []byte("a 32 byte claim seed............")
		p := make([]byte, 256)
		q := make([]byte, 256)
		_, err = rand.Read(p)
		Expect(err).To(BeNil())
		_, err = rand.Read(q)
		Expect(err).To(BeNil())

		blob, err := Seal(&priv.PublicKey, sPrime, p, q)
		Expect(err).To(BeNil())

		gotS, gotP, gotQ, err := Open(priv, blob)
		Expect(err).To(BeNil())
		Expect(gotS).To(Equal(sPrime))
		Expect(gotP).To(Equal(p))
		Expect(gotQ).To(Equal(q))
	})

	It("fails to open with the wrong key", func() {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		Expect(err).To(BeNil())
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		Expect(err).To(BeNil())

		blob, err := Seal(&priv.PublicKey, []byte("s"), []byte("p"), []byte("q"))
		Expect(err).To(BeNil())

		_, _, _, err = Open(other, blob)
		Expect(err).NotTo(BeNil())
	})
})
