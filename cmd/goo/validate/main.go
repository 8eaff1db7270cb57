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

package validate

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

// Config is the on-disk description of a validate request: the public GUO
// parameters, the claim seed, the published commitment, and the PEM file
// holding the candidate RSA private key.
type Config struct {
	groupconfig.Params `yaml:",inline"`

	SPrime     string `yaml:"sPrime"`
	C1         string `yaml:"c1"`
	RSAPrivKey string `yaml:"rsaPrivKey"`
}

// Result is the YAML shape printed to stdout.
type Result struct {
	Valid bool `yaml:"valid"`
}

var Cmd = &cobra.Command{
	Use:  "validate",
	Long: `Check whether a private key recreates a previously published commitment C1, without running the full proof protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yamlFile, err := os.ReadFile(viper.GetString("config"))
		if err != nil {
			return err
		}
		cfg := Config{}
		if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
			return err
		}

		// Validate only ever calls Challenge internally, so it needs the
		// same large comb tier Challenge and Sign need.
		grp, err := cfg.Params.Build(goo.ProverMode, log.Discard())
		if err != nil {
			return err
		}

		priv, err := keyio.LoadPrivateKey(cfg.RSAPrivKey)
		if err != nil {
			return err
		}

		sPrime, err := base64.StdEncoding.DecodeString(cfg.SPrime)
		if err != nil {
			return err
		}
		c1, err := base64.StdEncoding.DecodeString(cfg.C1)
		if err != nil {
			return err
		}

		valid, err := grp.Validate(sPrime, c1, priv)
		if err != nil {
			return err
		}

		raw, err := yaml.Marshal(Result{Valid: valid})
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}
