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

package verify

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/goo-zkp/goo/cmd/goo/groupconfig"
	"github.com/goo-zkp/goo/goo"
)

// Config is the on-disk description of a verify request: the public GUO
// parameters, the message, the serialized proof, and the claimed commitment.
type Config struct {
	groupconfig.Params `yaml:",inline"`

	Msg string `yaml:"msg"`
	Sig string `yaml:"sig"`
	C1  string `yaml:"c1"`
}

// Result is the YAML shape printed to stdout.
type Result struct {
	Valid bool `yaml:"valid"`
}

var Cmd = &cobra.Command{
	Use:  "verify",
	Long: `Check a zero-knowledge proof of RSA factorization against a message and a published commitment C1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yamlFile, err := os.ReadFile(viper.GetString("config"))
		if err != nil {
			return err
		}
		cfg := Config{}
		if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
			return err
		}

		grp, err := cfg.Params.Build(goo.VerifierMode, log.Discard())
		if err != nil {
			return err
		}

		sig, err := base64.StdEncoding.DecodeString(cfg.Sig)
		if err != nil {
			return err
		}
		c1, err := base64.StdEncoding.DecodeString(cfg.C1)
		if err != nil {
			return err
		}

		valid := grp.Verify([]byte(cfg.Msg), sig, c1)

		raw, err := yaml.Marshal(Result{Valid: valid})
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}
