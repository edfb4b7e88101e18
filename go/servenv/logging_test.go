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

package servenv

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multigres/scriptlex/go/viperutil"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, expected := range tests {
		assert.Equal(t, expected, ParseLevel(name), name)
	}
}

func TestLoggerFlags(t *testing.T) {
	reg := viperutil.NewRegistry()
	lg := NewLogger(reg)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	lg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{"--log-level", "debug", "--log-format", "json"}))
	assert.Equal(t, "debug", lg.logLevel.Get())
	assert.Equal(t, "json", lg.logFormat.Get())
	assert.Equal(t, "stderr", lg.logOutput.Get())
}

func TestSetupLoggingToFile(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	path := filepath.Join(t.TempDir(), "scriptlex.log")

	reg := viperutil.NewRegistry()
	lg := NewLogger(reg)
	lg.logOutput.Set(path)
	lg.logFormat.Set("json")
	lg.logLevel.Set("warn")

	var hooked *slog.Logger
	lg.OnLoggingSetup(func(l *slog.Logger) { hooked = l })

	assert.Same(t, slog.Default(), lg.GetLogger())

	lg.SetupLogging()
	require.NotNil(t, hooked)
	assert.Same(t, hooked, lg.GetLogger())
	assert.Same(t, hooked, slog.Default())

	lg.GetLogger().Info("dropped below level")
	lg.GetLogger().Warn("lexical diagnostics", "count", 2)

	// Second call must not rebuild the logger.
	lg.SetupLogging()
	assert.Same(t, hooked, lg.GetLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "lexical diagnostics", entry["msg"])
	assert.EqualValues(t, 2, entry["count"])
}
