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

// Package watch re-lexes a source file every time it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/multigres/scriptlex/go/lexer"
)

// Handler receives the result of lexing the file. Returning an error stops the watch.
type Handler func(*lexer.Result) error

// Watch lexes path once, then again after every write to it, until ctx is
// done. The parent directory is watched rather than the file itself so that
// editors which replace the file on save keep being followed. fs must be
// backed by the real filesystem for events to fire.
func Watch(ctx context.Context, fs afero.Fs, path string, handle Handler) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if err := lexFile(fs, path, handle); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !Relevant(event, path) {
				continue
			}
			slog.Debug("source changed", "path", path, "op", event.Op.String())
			if err := lexFile(fs, path, handle); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "path", path, "error", err)
		}
	}
}

// Relevant reports whether event means the contents of path may have changed.
func Relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func lexFile(fs afero.Fs, path string, handle Handler) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		// The file may be mid-replacement; the next event will retry.
		slog.Warn("failed to read source", "path", path, "error", err)
		return nil
	}
	return handle(lexer.TokenizeSource(path, string(data)))
}
