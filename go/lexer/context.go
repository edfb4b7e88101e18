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
 * Script Lexer - Context Management
 *
 * LexerContext owns the input buffer, the cursor and the error log of one
 * lexer instance. Nothing here is shared between instances.
 */

package lexer

import (
	"fmt"
	"unicode/utf8"
)

// LexerContext is the complete scanning state of a Lexer.
type LexerContext struct {
	// Input buffer management
	ScanBuf    []byte // The text being scanned, never modified
	ScanBufLen int    // Length of the scan buffer
	ScanPos    int    // Cursor, 0 <= ScanPos <= ScanBufLen

	// Error handling
	Errors []LexError // Append-only error log
}

// NewLexerContext creates a context positioned at the start of input.
func NewLexerContext(input string) *LexerContext {
	return &LexerContext{
		ScanBuf:    []byte(input),
		ScanBufLen: len(input),
		ScanPos:    0,
		Errors:     make([]LexError, 0),
	}
}

// AtEOF returns true if the cursor is at the end of input
func (ctx *LexerContext) AtEOF() bool {
	return ctx.ScanPos >= ctx.ScanBufLen
}

// CurrentByte returns the byte under the cursor without advancing
func (ctx *LexerContext) CurrentByte() (byte, bool) {
	return ctx.getByteAt(0)
}

// PeekByte returns the byte after the cursor without advancing
func (ctx *LexerContext) PeekByte() (byte, bool) {
	return ctx.getByteAt(1)
}

func (ctx *LexerContext) getByteAt(offset int) (byte, bool) {
	pos := ctx.ScanPos + offset
	if pos >= ctx.ScanBufLen {
		return 0, false
	}
	return ctx.ScanBuf[pos], true
}

// CurrentChar returns the byte under the cursor as a one-byte substring of the
// input, or "" at end of input.
func (ctx *LexerContext) CurrentChar() string {
	return ctx.charAt(0)
}

// PeekChar returns the byte after the cursor as a substring, or "" if there is none.
func (ctx *LexerContext) PeekChar() string {
	return ctx.charAt(1)
}

func (ctx *LexerContext) charAt(offset int) string {
	pos := ctx.ScanPos + offset
	if pos >= ctx.ScanBufLen {
		return ""
	}
	return string(ctx.ScanBuf[pos : pos+1])
}

// Advance moves the cursor forward one byte. It saturates at end of input.
func (ctx *LexerContext) Advance() {
	if ctx.ScanPos < ctx.ScanBufLen {
		ctx.ScanPos++
	}
}

// SkipRune moves the cursor past the whole UTF-8 sequence under it and returns
// that sequence. A malformed byte is skipped on its own.
func (ctx *LexerContext) SkipRune() string {
	if ctx.AtEOF() {
		return ""
	}
	_, size := utf8.DecodeRune(ctx.ScanBuf[ctx.ScanPos:])
	text := string(ctx.ScanBuf[ctx.ScanPos : ctx.ScanPos+size])
	ctx.ScanPos += size
	return text
}

// GetCurrentText returns the text from startPos up to the cursor
func (ctx *LexerContext) GetCurrentText(startPos int) string {
	if startPos < 0 || startPos > ctx.ScanPos {
		return ""
	}
	return string(ctx.ScanBuf[startPos:ctx.ScanPos])
}

// AddError appends a record to the error log and returns a copy of it.
func (ctx *LexerContext) AddError(kind ErrorKind, pos int, char, message string) LexError {
	line, column := CalculateLineColumn(ctx.ScanBuf, pos)
	err := LexError{
		Kind: kind,
		Location: Location{
			Pos:    pos,
			Char:   char,
			Line:   line,
			Column: column,
		},
		Message:  message,
		NearText: ctx.extractNearText(pos),
	}
	ctx.Errors = append(ctx.Errors, err)
	return err
}

func (ctx *LexerContext) extractNearText(pos int) string {
	const maxNearTextLen = 20

	if pos < 0 || pos >= ctx.ScanBufLen {
		return ""
	}
	// Cut on a character boundary, at most maxNearTextLen characters in.
	end := pos
	for n := 0; n < maxNearTextLen && end < ctx.ScanBufLen; n++ {
		_, size := utf8.DecodeRune(ctx.ScanBuf[end:])
		end += size
	}
	return SanitizeNearText(string(ctx.ScanBuf[pos:end]), maxNearTextLen)
}

// HasErrors returns true if any errors have been collected
func (ctx *LexerContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// GetErrors returns a copy of the collected errors
func (ctx *LexerContext) GetErrors() []LexError {
	out := make([]LexError, len(ctx.Errors))
	copy(out, ctx.Errors)
	return out
}

// String returns a string representation of the context for debugging
func (ctx *LexerContext) String() string {
	return fmt.Sprintf("LexerContext{Position: %d/%d, Errors: %d}", ctx.ScanPos, ctx.ScanBufLen, len(ctx.Errors))
}
