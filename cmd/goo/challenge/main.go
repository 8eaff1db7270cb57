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

package challenge

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/goo-zkp/goo/cmd/goo/groupconfig"
	"github.com/goo-zkp/goo/cmd/goo/keyio"
	"github.com/goo-zkp/goo/goo"
)

// Config is the on-disk description of a challenge request: the public GUO
// parameters, the claim seed, and the PEM file holding the claimed RSA
// public key.
type Config struct {
	groupconfig.Params `yaml:",inline"`

	SPrime    string `yaml:"sPrime"`
	RSAPubKey string `yaml:"rsaPubKey"`
}

// Result is the YAML shape printed to stdout.
type Result struct {
	C1 string `yaml:"c1"`
}

var Cmd = &cobra.Command{
	Use:  "challenge",
	Long: `Commit a claim seed to an RSA public key, producing C1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yamlFile, err := os.ReadFile(viper.GetString("config"))
		if err != nil {
			return err
		}
		cfg := Config{}
		if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
			return err
		}

		// Committing to n as an exponent needs combs covering up to
		// MAX_RSA_BITS, the same tier Sign needs — not the small one
		// Verify gets by with.
		grp, err := cfg.Params.Build(goo.ProverMode, log.Discard())
		if err != nil {
			return err
		}

		pub, err := keyio.LoadPublicKey(cfg.RSAPubKey)
		if err != nil {
			return err
		}

		sPrime, err := base64.StdEncoding.DecodeString(cfg.SPrime)
		if err != nil {
			return err
		}

		c1, err := grp.Challenge(sPrime, pub)
		if err != nil {
			return err
		}

		raw, err := yaml.Marshal(Result{C1: base64.StdEncoding.EncodeToString(c1)})
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}
