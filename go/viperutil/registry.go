// Copyright 2025 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package viperutil

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every automatically bound environment variable,
// so "output-format" is read from SCRIPTLEX_OUTPUT_FORMAT.
const EnvPrefix = "SCRIPTLEX"

// Registry holds the viper instance backing one command's configuration.
// Each command builds its own registry so tests and subcommands never share
// configuration state.
type Registry struct {
	v *viper.Viper
}

// NewRegistry creates a new isolated configuration registry.
//
// Example usage:
//
//	reg := viperutil.NewRegistry()
//	format := viperutil.Configure(reg, "output-format", viperutil.Options[string]{
//	    Default:  "text",
//	    FlagName: "output-format",
//	})
func NewRegistry() *Registry {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return &Registry{v: v}
}

// Viper exposes the underlying viper instance.
func (reg *Registry) Viper() *viper.Viper {
	return reg.v
}

// AllSettings returns every known key with its effective value.
func (reg *Registry) AllSettings() map[string]any {
	return reg.v.AllSettings()
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func (reg *Registry) ConfigFileUsed() string {
	return reg.v.ConfigFileUsed()
}
