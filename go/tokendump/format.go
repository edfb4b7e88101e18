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

// Package tokendump renders lexer results for humans and machines.
package tokendump

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/multigres/scriptlex/go/lexer"
)

// OutputFormat selects how results are rendered.
type OutputFormat int

const (
	FormatText OutputFormat = iota
	FormatJSON
	FormatYAML
)

var formatNames = map[string]OutputFormat{
	"text": FormatText,
	"json": FormatJSON,
	"yaml": FormatYAML,
}

// FormatNames returns the accepted format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(formatNames))
	for name := range formatNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *OutputFormat) Set(arg string) error {
	if v, ok := formatNames[strings.ToLower(arg)]; ok {
		*f = v
		return nil
	}
	return fmt.Errorf("unknown output format %q (options: %s)", arg, strings.Join(FormatNames(), ", "))
}

func (f *OutputFormat) String() string {
	for name, v := range formatNames {
		if v == *f {
			return name
		}
	}
	return "<UNKNOWN>"
}

func (f *OutputFormat) Type() string { return "OutputFormat" }

// MarshalText renders the format by name.
func (f OutputFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// GetFormatValue reads an OutputFormat from viper, accepting either a name or
// the numeric value. Unreadable values fall back to text.
func GetFormatValue(v *viper.Viper) func(key string) OutputFormat {
	return func(key string) (f OutputFormat) {
		if err := v.UnmarshalKey(key, &f, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(decodeFormatValue))); err != nil {
			f = FormatText
			slog.Warn("failed to read output format; defaulting to text", "key", key, "error", err)
		}
		return f
	}
}

func decodeFormatValue(from, to reflect.Type, data any) (any, error) {
	var f OutputFormat
	if to != reflect.TypeOf(f) {
		return data, nil
	}

	switch {
	case from == reflect.TypeOf(f):
		return data.(OutputFormat), nil
	case from.Kind() == reflect.Int:
		return OutputFormat(data.(int)), nil
	case from.Kind() == reflect.String:
		if err := f.Set(data.(string)); err != nil {
			return f, err
		}
		return f, nil
	}

	return data, fmt.Errorf("invalid value for OutputFormat: %v", data)
}

// Options controls rendering.
type Options struct {
	Format     OutputFormat
	ShowErrors bool

	// Detailed renders text error log entries with their kind, nearby text and
	// byte position on separate lines.
	Detailed bool

	// Exclude drops matching tokens from the output. Nil keeps everything.
	Exclude KindFilter
}

// KindFilter reports whether tokens of a kind should be dropped.
type KindFilter func(lexer.TokenKind) bool

var kindClasses = map[string]KindFilter{
	"keyword":     lexer.TokenKind.IsKeyword,
	"operator":    lexer.TokenKind.IsOperator,
	"punctuation": lexer.TokenKind.IsPunctuation,
	"whitespace":  lexer.TokenKind.IsWhitespace,
}

// ParseKindFilter builds a filter from token kind names (NEW_LINE, NAME, ...)
// and class names (keyword, operator, punctuation, whitespace). Entries may
// themselves be comma separated. An empty list yields a nil filter.
func ParseKindFilter(names []string) (KindFilter, error) {
	var filters []KindFilter
	for _, name := range strings.Split(strings.Join(names, ","), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if class, ok := kindClasses[strings.ToLower(name)]; ok {
			filters = append(filters, class)
			continue
		}
		kind, ok := lexer.ParseTokenKind(strings.ToUpper(name))
		if !ok {
			return nil, fmt.Errorf("unknown token kind or class %q", name)
		}
		filters = append(filters, func(k lexer.TokenKind) bool { return k == kind })
	}
	if len(filters) == 0 {
		return nil, nil
	}
	return func(k lexer.TokenKind) bool {
		for _, f := range filters {
			if f(k) {
				return true
			}
		}
		return false
	}, nil
}

func (opts Options) tokens(r *lexer.Result) []lexer.Token {
	if opts.Exclude == nil {
		return r.Tokens
	}
	kept := make([]lexer.Token, 0, len(r.Tokens))
	for _, tok := range r.Tokens {
		if !opts.Exclude(tok.Kind) {
			kept = append(kept, tok)
		}
	}
	return kept
}

type document struct {
	Source string           `json:"source" yaml:"source"`
	Tokens []lexer.Token    `json:"tokens" yaml:"tokens"`
	Errors []lexer.LexError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func documents(results []*lexer.Result, opts Options) []document {
	docs := make([]document, 0, len(results))
	for _, r := range results {
		doc := document{Source: r.Source, Tokens: opts.tokens(r)}
		if opts.ShowErrors {
			doc.Errors = r.Errors
		}
		docs = append(docs, doc)
	}
	return docs
}

// Write renders results to w.
func Write(w io.Writer, results []*lexer.Result, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(documents(results, opts)); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(documents(results, opts)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
		return nil
	case FormatText:
		return writeText(w, results, opts)
	default:
		return fmt.Errorf("unsupported output format %d", int(opts.Format))
	}
}

func writeText(w io.Writer, results []*lexer.Result, opts Options) error {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(results) > 1 {
			fmt.Fprintf(&sb, "==> %s <==\n", r.Source)
		}
		for _, tok := range opts.tokens(r) {
			sb.WriteString(tok.String())
			sb.WriteString("\n")
		}
		if opts.ShowErrors {
			sb.WriteString("Error log:\n")
			for _, e := range r.Errors {
				if !opts.Detailed {
					fmt.Fprintf(&sb, "  %s: %s\n", e.Kind, e.Error())
					continue
				}
				for _, line := range strings.Split(e.DetailedError(), "\n") {
					fmt.Fprintf(&sb, "  %s\n", line)
				}
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
