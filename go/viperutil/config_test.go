// Copyright 2023 The Vitess Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Modifications Copyright 2025 Supabase, Inc.

package viperutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigHandlingValue(t *testing.T) {
	v := viper.New()
	v.SetDefault("default", ExitOnConfigFileNotFound)
	v.SetConfigType("yaml")

	cfg := `
foo: 2
bar: "2" # not valid, defaults to "ignore" (0)
baz: error
duration: 10h
`
	err := v.ReadConfig(strings.NewReader(strings.NewReplacer("\t", "  ").Replace(cfg)))
	require.NoError(t, err)

	getHandlingValueFunc := getHandlingValue(v)
	assert.Equal(t, ErrorOnConfigFileNotFound, getHandlingValueFunc("foo"), "failed to get int value")
	assert.Equal(t, IgnoreConfigFileNotFound, getHandlingValueFunc("bar"), "failed to get int-like string value")
	assert.Equal(t, ErrorOnConfigFileNotFound, getHandlingValueFunc("baz"), "failed to get string value")
	assert.Equal(t, IgnoreConfigFileNotFound, getHandlingValueFunc("notset"), "failed to get value on unset key")
	assert.Equal(t, IgnoreConfigFileNotFound, getHandlingValueFunc("duration"), "failed to get value on duration key")
	assert.Equal(t, ExitOnConfigFileNotFound, getHandlingValueFunc("default"), "failed to get value on default key")
}

// TestLoadConfig tests that LoadConfig behaves in the way expected when the config file doesn't exist.
func TestLoadConfig(t *testing.T) {
	t.Run("Ignore file not found error", func(t *testing.T) {
		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set("notfound.yaml")
		vc.configFileNotFoundHandling.Set(IgnoreConfigFileNotFound)
		require.NoError(t, vc.LoadConfig(reg))
	})

	t.Run("Ignore file not found error from config name", func(t *testing.T) {
		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set("")
		vc.configName.Set("notfound")
		vc.configPaths.Set([]string{t.TempDir()})
		vc.configFileNotFoundHandling.Set(IgnoreConfigFileNotFound)
		require.NoError(t, vc.LoadConfig(reg))
	})

	t.Run("Warn file not found error", func(t *testing.T) {
		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set("notfound.yaml")
		vc.configFileNotFoundHandling.Set(WarnOnConfigFileNotFound)
		require.NoError(t, vc.LoadConfig(reg))
	})

	t.Run("Error file not found error", func(t *testing.T) {
		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set("notfound.yaml")
		vc.configFileNotFoundHandling.Set(ErrorOnConfigFileNotFound)
		require.Error(t, vc.LoadConfig(reg))
	})

	t.Run("Exit handling returns the error like error handling", func(t *testing.T) {
		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set("notfound.yaml")
		vc.configFileNotFoundHandling.Set(ExitOnConfigFileNotFound)
		err := vc.LoadConfig(reg)
		require.Error(t, err)
		assert.True(t, isConfigFileNotFoundError(err), err.Error())
	})

	t.Run("Error file not found error from config name", func(t *testing.T) {
		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set("")
		vc.configName.Set("notfound")
		vc.configPaths.Set([]string{t.TempDir()})
		vc.configFileNotFoundHandling.Set(ErrorOnConfigFileNotFound)
		require.Error(t, vc.LoadConfig(reg))
	})

	t.Run("Loads values from file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "scriptlex.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output-format: yaml\nshow-errors: false\n"), 0o644))

		reg := NewRegistry()
		vc := NewViperConfig(reg)
		format := Configure(reg, "output-format", Options[string]{Default: "text"})
		showErrors := Configure(reg, "show-errors", Options[bool]{Default: true})
		vc.configPaths.Set([]string{dir})

		require.NoError(t, vc.LoadConfig(reg))
		assert.Equal(t, path, reg.ConfigFileUsed())
		assert.Equal(t, "yaml", format.Get())
		assert.False(t, showErrors.Get())
	})

	t.Run("Malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a: [unclosed\n"), 0o644))

		reg := NewRegistry()
		vc := NewViperConfig(reg)
		vc.configFile.Set(path)
		vc.configFileNotFoundHandling.Set(IgnoreConfigFileNotFound)
		require.Error(t, vc.LoadConfig(reg))
	})
}

func TestConfigFileNotFoundHandlingFlag(t *testing.T) {
	reg := NewRegistry()
	vc := NewViperConfig(reg)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	vc.RegisterFlags(fs)

	assert.Equal(t, IgnoreConfigFileNotFound, vc.configFileNotFoundHandling.Get())

	require.NoError(t, fs.Parse([]string{"--config-file-not-found-handling=error"}))
	assert.Equal(t, ErrorOnConfigFileNotFound, vc.configFileNotFoundHandling.Get())

	err := fs.Set("config-file-not-found-handling", "sometimes")
	assert.Error(t, err)
}

func TestHandlingNames(t *testing.T) {
	assert.Equal(t, []string{"error", "exit", "ignore", "warn"}, handlingNames)

	var h ConfigFileNotFoundHandling
	require.NoError(t, h.Set("WARN"))
	assert.Equal(t, WarnOnConfigFileNotFound, h)
	assert.Equal(t, "warn", h.String())

	h = ConfigFileNotFoundHandling(17)
	assert.Equal(t, "<UNKNOWN>", h.String())
}
