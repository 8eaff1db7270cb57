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

// Package groupconfig is the shared YAML fragment every goo subcommand
// embeds to describe the fixed public GUO parameters (N, g, h), plus the
// helper that turns it into a goo.Group.
package groupconfig

import (
	"fmt"
	"math/big"

	"github.com/getamis/sirius/log"

	"github.com/goo-zkp/goo/goo"
)

// Params is the on-disk shape of a GUO instance's public parameters.
type Params struct {
	N string `yaml:"n"` // hex-encoded RSA modulus
	G uint32 `yaml:"g"`
	H uint32 `yaml:"h"`
}

// Build constructs a goo.Group from p, precomputing the comb tier mode asks
// for.
func (p Params) Build(mode goo.Mode, logger log.Logger) (*goo.Group, error) {
	n, ok := new(big.Int).SetString(p.N, 16)
	if !ok {
		return nil, fmt.Errorf("groupconfig: %q is not a valid hex modulus", p.N)
	}
	return goo.New(n.Bytes(), p.G, p.H, mode, logger)
}
