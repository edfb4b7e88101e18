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
 * Script Lexer - Core Lexer Implementation
 *
 * A cursor-driven scanner that produces one token or one diagnostic signal
 * per call to Lex, recording every diagnostic in the context's error log.
 */

package lexer

import (
	"fmt"
)

// Lexer scans a single immutable input buffer.
type Lexer struct {
	context *LexerContext
}

// NewLexer creates a lexer over input. If input contains characters outside the
// source character set an INVALID_CHAR record is logged at position 0. The check
// is advisory and scanning proceeds regardless.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		context: NewLexerContext(input),
	}
	if !AllAllowed(input) {
		l.context.AddError(INVALID_CHAR, 0, "", msgInvalidInput)
	}
	return l
}

// Next advances the cursor by one character and returns the new current
// character. At end of input it stays put and returns "".
func (l *Lexer) Next() string {
	l.context.Advance()
	return l.context.CurrentChar()
}

// Peek returns the character after the cursor, or "" past the end.
func (l *Lexer) Peek() string {
	return l.context.PeekChar()
}

// Current returns the character under the cursor, or "" at end of input.
func (l *Lexer) Current() string {
	return l.context.CurrentChar()
}

// Pos returns the cursor offset.
func (l *Lexer) Pos() int {
	return l.context.ScanPos
}

// Errors returns the error log accumulated so far, oldest first.
func (l *Lexer) Errors() []LexError {
	return l.context.GetErrors()
}

// HasErrors returns true if any diagnostic has been recorded
func (l *Lexer) HasErrors() bool {
	return l.context.HasErrors()
}

// ErrorCount returns the number of recorded diagnostics
func (l *Lexer) ErrorCount() int {
	return len(l.context.Errors)
}

// Lex produces the next token. The returned ErrorKind is SUCCESS when a token
// was produced; otherwise the token is nil and the kind names the diagnostic that
// was also appended to the error log. Scanning must stop once kind.IsTerminal().
//
// INVALID_CHAR and UNKNOWN_CHAR consume the offending character, so calling Lex
// again continues with the rest of the input.
func (l *Lexer) Lex() (*Token, ErrorKind) {
	ctx := l.context

	if ctx.ScanBufLen == 0 {
		ctx.AddError(EMPTY_STRING, 0, "", msgEmptyString)
		return nil, EMPTY_STRING
	}

	l.skipSpaces()

	if b, ok := ctx.CurrentByte(); ok && !IsAllowed(b) {
		pos := ctx.ScanPos
		char := ctx.SkipRune()
		ctx.AddError(INVALID_CHAR, pos, char, fmt.Sprintf(invalidCharMessageTmpl, char))
		return nil, INVALID_CHAR
	}

	if ctx.AtEOF() {
		ctx.AddError(EOF, ctx.ScanPos, "", msgEOF)
		return nil, EOF
	}

	return l.scanToken(ctx.ScanPos)
}

// scanToken classifies the character under the cursor. Order matters: the
// first matching rule wins.
func (l *Lexer) scanToken(startPos int) (*Token, ErrorKind) {
	b, _ := l.context.CurrentByte()

	switch {
	case IsDigit(b):
		return l.scanNumber(startPos)
	case IsAlphaNumeric(b):
		return l.scanName(startPos)
	}

	if tok, ok := l.scanOperator(startPos); ok {
		return tok, SUCCESS
	}
	if tok, ok := l.scanPunctuation(startPos); ok {
		return tok, SUCCESS
	}

	switch b {
	case '\n':
		l.context.Advance()
		return newToken(NEW_LINE, "", startPos), SUCCESS
	case '\t':
		l.context.Advance()
		return newToken(TAB, "", startPos), SUCCESS
	case '\'', '"':
		return l.scanString(startPos, b)
	}

	// The cursor moves past the character so the caller's loop makes progress.
	char := l.context.SkipRune()
	l.context.AddError(UNKNOWN_CHAR, startPos, char, msgUnknownChar)
	return nil, UNKNOWN_CHAR
}

// scanNumber scans a run of decimal digits. There are no signs, fractions or exponents.
func (l *Lexer) scanNumber(startPos int) (*Token, ErrorKind) {
	for {
		b, ok := l.context.CurrentByte()
		if !ok || !IsDigit(b) {
			break
		}
		l.context.Advance()
	}

	text := l.context.GetCurrentText(startPos)
	return newToken(NUMBER, text, startPos), SUCCESS
}

// scanName scans a name or keyword. A name starts on any letter or digit but
// continues only on letters and underscore, so "ab1" is NAME("ab") then NUMBER("1").
func (l *Lexer) scanName(startPos int) (*Token, ErrorKind) {
	l.context.Advance()

	for {
		b, ok := l.context.CurrentByte()
		if !ok || !IsNameCont(b) {
			break
		}
		l.context.Advance()
	}

	text := l.context.GetCurrentText(startPos)
	if kind, ok := LookupKeyword(text); ok {
		return newToken(kind, text, startPos), SUCCESS
	}
	return newToken(NAME, text, startPos), SUCCESS
}

// scanOperator scans the operators that may be one or two characters long,
// preferring the longer form.
func (l *Lexer) scanOperator(startPos int) (*Token, bool) {
	b, _ := l.context.CurrentByte()
	next, _ := l.context.PeekByte()

	var single TokenKind
	var double TokenKind
	hasDouble := false

	switch b {
	case '+':
		single = PLUS_SIGN
		switch next {
		case '+':
			double, hasDouble = INC_SIGN, true
		case '=':
			double, hasDouble = INC_BY_SIGN, true
		}
	case '-':
		single = MINUS_SIGN
		switch next {
		case '-':
			double, hasDouble = DEC_SIGN, true
		case '=':
			double, hasDouble = DEC_BY_SIGN, true
		}
	case '*':
		single = MULT_SIGN
		switch next {
		case '*':
			double, hasDouble = EXP_SIGN, true
		case '=':
			double, hasDouble = MULT_ASSIGN_SIGN, true
		}
	case '>':
		single = GREATER_THAN_SIGN
		if next == '=' {
			double, hasDouble = GREATER_EQ_SIGN, true
		}
	case '<':
		single = LESS_THAN_SIGN
		if next == '=' {
			double, hasDouble = LESS_EQ_SIGN, true
		}
	case '=':
		single = EQUALS_SIGN
		if next == '=' {
			double, hasDouble = LOGIC_EQ_SIGN, true
		}
	case ':':
		single = COLON_SIGN
		if next == ':' {
			double, hasDouble = TYPE_DECLARATION, true
		}
	case '/':
		// No two-character form.
		single = DIV_SIGN
	default:
		return nil, false
	}

	l.context.Advance()
	if hasDouble {
		l.context.Advance()
		return newToken(double, l.context.GetCurrentText(startPos), startPos), true
	}
	return newToken(single, l.context.GetCurrentText(startPos), startPos), true
}

// punctuation maps single-character tokens that need no lookahead.
var punctuation = map[byte]TokenKind{
	'(': OPEN_PAREN,
	')': CLOSE_PAREN,
	'[': OPEN_BRACKET,
	']': CLOSE_BRACKET,
	'{': OPEN_CURLY,
	'}': CLOSE_CURLY,
	'^': CARROT,
	'|': BAR,
	'%': PERCENT_SIGN,
	';': SEMICOLON_SIGN,
	'.': PERIOD,
	',': COMMA,
	'#': HASH_SYMB,
}

func (l *Lexer) scanPunctuation(startPos int) (*Token, bool) {
	b, _ := l.context.CurrentByte()
	kind, ok := punctuation[b]
	if !ok {
		return nil, false
	}
	l.context.Advance()
	return newToken(kind, l.context.GetCurrentText(startPos), startPos), true
}

// scanString scans a quoted literal. The lexeme is the verbatim text between
// the quotes; there are no escape sequences. A literal that reaches end of input
// is reported as UNTERMINATED_STRING and leaves the cursor at the end.
func (l *Lexer) scanString(startPos int, quote byte) (*Token, ErrorKind) {
	l.context.Advance()
	contentStart := l.context.ScanPos

	for {
		b, ok := l.context.CurrentByte()
		if !ok {
			l.context.AddError(UNTERMINATED_STRING, startPos, string(rune(quote)), msgUnterminatedString)
			return nil, UNTERMINATED_STRING
		}
		if b == quote {
			break
		}
		l.context.Advance()
	}

	content := l.context.GetCurrentText(contentStart)
	l.context.Advance()
	return newToken(STRING_LITERAL, content, startPos), SUCCESS
}

// skipSpaces skips plain spaces. Tabs and newlines are tokens.
func (l *Lexer) skipSpaces() {
	for {
		b, ok := l.context.CurrentByte()
		if !ok || b != ' ' {
			return
		}
		l.context.Advance()
	}
}

// String returns a string representation of the lexer for debugging
func (l *Lexer) String() string {
	return fmt.Sprintf("Lexer{Context: %s}", l.context.String())
}

func newToken(kind TokenKind, lexeme string, position int) *Token {
	tok := NewToken(kind, lexeme, position)
	return &tok
}
