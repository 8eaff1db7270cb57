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

package generate

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// Result is the YAML shape printed to stdout: a fresh claim seed, ready to
// be pasted into a challenge/sign config.
type Result struct {
	SPrime string `yaml:"sPrime"`
}

var Cmd = &cobra.Command{
	Use:  "generate",
	Long: `Draw a fresh 32-byte claim seed s' and print it base64-encoded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return err
		}

		raw, err := yaml.Marshal(Result{SPrime: base64.StdEncoding.EncodeToString(seed)})
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}
