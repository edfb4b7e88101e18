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

package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		fs   func(t *testing.T) (afero.Fs, string)
	}{
		{
			name: "memory",
			fs: func(t *testing.T) (afero.Fs, string) {
				fs := afero.NewMemMapFs()
				require.NoError(t, fs.MkdirAll("/out", 0o755))
				return fs, "/out"
			},
		},
		{
			name: "os",
			fs: func(t *testing.T) (afero.Fs, string) {
				return afero.NewOsFs(), t.TempDir()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, dir := tt.fs(t)
			path := filepath.Join(dir, "tokens.txt")

			require.NoError(t, AtomicWriteFile(fs, path, []byte("first"), 0o644))
			require.NoError(t, AtomicWriteFile(fs, path, []byte("second"), 0o600))

			data, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			assert.Equal(t, "second", string(data))

			info, err := fs.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			entries, err := afero.ReadDir(fs, dir)
			require.NoError(t, err)
			require.Len(t, entries, 1, "temp file left behind")
			assert.Equal(t, "tokens.txt", entries[0].Name())
		})
	}
}

func TestAtomicWriteFileMissingDirectory(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := AtomicWriteFile(fs, "/nowhere/tokens.txt", []byte("x"), 0o644)
	assert.Error(t, err)
}
