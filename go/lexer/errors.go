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

/*
 * Script Lexer - Error Handling
 *
 * Lexical problems are recorded as LexError values in the lexer's error log
 * and also returned as the ErrorKind signal of the Lex call that found them.
 */

package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrorKind is the signal returned alongside every Lex call.
//
// SUCCESS accompanies a produced token. All other kinds are diagnostics. Callers
// must compare kinds explicitly; use IsTerminal to decide when to stop scanning.
type ErrorKind int

const (
	SUCCESS ErrorKind = iota
	EOF
	INVALID_CHAR
	EMPTY_STRING
	UNKNOWN_CHAR
	UNTERMINATED_STRING
)

var errorKindNames = map[ErrorKind]string{
	SUCCESS:             "SUCCESS",
	EOF:                 "EOF",
	INVALID_CHAR:        "INVALID_CHAR",
	EMPTY_STRING:        "EMPTY_STRING",
	UNKNOWN_CHAR:        "UNKNOWN_CHAR",
	UNTERMINATED_STRING: "UNTERMINATED_STRING",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText renders the kind by name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsTerminal reports whether the scan loop must stop after this signal.
func (k ErrorKind) IsTerminal() bool {
	return k == EOF || k == EMPTY_STRING
}

// Location identifies where a lexical problem was detected.
type Location struct {
	Pos    int    `json:"pos" yaml:"pos"`
	Char   string `json:"char" yaml:"char"` // empty at end of input
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// LexError is one entry of the lexer's error log.
type LexError struct {
	Kind     ErrorKind `json:"kind" yaml:"kind"`
	Location Location  `json:"location" yaml:"location"`
	Message  string    `json:"message" yaml:"message"`
	NearText string    `json:"near_text,omitempty" yaml:"near_text,omitempty"`
}

// Error implements the error interface
func (e *LexError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Location.Line, e.Location.Column)
}

// DetailedError returns a multi-line message with the kind, position and nearby text.
func (e *LexError) DetailedError() string {
	var parts []string

	if e.NearText != "" {
		parts = append(parts, fmt.Sprintf("%s: %s at or near \"%s\"", e.Kind, e.Message, e.NearText))
	} else {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Kind, e.Message))
	}
	parts = append(parts, fmt.Sprintf("at line %d, column %d (position %d)", e.Location.Line, e.Location.Column, e.Location.Pos))

	return strings.Join(parts, "\n")
}

// Messages recorded for each diagnostic kind.
const (
	msgInvalidInput        = "input string contains invalid characters"
	msgEmptyString         = "cannot tokenize empty string"
	msgEOF                 = "lexer has reached end of file"
	msgUnknownChar         = "cannot tokenize unknown char"
	msgUnterminatedString  = "unterminated string literal"
	invalidCharMessageTmpl = "the character %q is not allowed"
)

// CalculateLineColumn returns the 1-based line and column of a byte offset.
func CalculateLineColumn(input []byte, pos int) (line, column int) {
	if pos < 0 {
		return 1, 1
	}
	if pos > len(input) {
		pos = len(input)
	}

	line, column = 1, 1
	for i := 0; i < pos; i++ {
		if input[i] == '\n' {
			line++
			column = 1
		} else if utf8.RuneStart(input[i]) {
			// Continuation bytes of a multi-byte character share its column.
			column++
		}
	}
	return line, column
}

// SanitizeNearText replaces control characters and limits length for display in messages.
func SanitizeNearText(text string, maxLen int) string {
	if text == "" {
		return ""
	}

	sanitized := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '.'
		}
		return r
	}, text)

	// maxLen counts characters; invalid bytes were already mapped to U+FFFD.
	if runes := []rune(sanitized); len(runes) > maxLen {
		sanitized = string(runes[:maxLen]) + "..."
	}
	return sanitized
}
