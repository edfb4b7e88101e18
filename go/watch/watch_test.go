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

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/multigres/scriptlex/go/lexer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRelevant(t *testing.T) {
	path := filepath.Join("src", "main.sl")
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"write and chmod", fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join("src", "other.sl"), Op: fsnotify.Write}, false},
		{"unclean name", fsnotify.Event{Name: "src/./main.sl", Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Relevant(tt.event, path))
		})
	}
}

func hasLexeme(r *lexer.Result, lexeme string) bool {
	for _, tok := range r.Tokens {
		if tok.Lexeme == lexeme {
			return true
		}
	}
	return false
}

func TestWatchRelexesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sl")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan *lexer.Result, 64)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, afero.NewOsFs(), path, func(r *lexer.Result) error {
			results <- r
			return nil
		})
	}()

	select {
	case r := <-results:
		assert.Equal(t, path, r.Source)
		assert.True(t, hasLexeme(r, "x"))
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no initial result")
	}

	require.NoError(t, os.WriteFile(path, []byte("while y"), 0o644))

	deadline := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case r := <-results:
			found = hasLexeme(r, "while")
		case <-deadline:
			require.FailNow(t, "change was not picked up")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watch did not stop after cancel")
	}
}

func TestWatchStopsOnHandlerError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sl")
	require.NoError(t, os.WriteFile(path, []byte("if"), 0o644))

	stop := errors.New("stop")
	err := Watch(context.Background(), afero.NewOsFs(), path, func(r *lexer.Result) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "main.sl")
	err := Watch(context.Background(), afero.NewOsFs(), path, func(*lexer.Result) error { return nil })
	assert.Error(t, err)
}
