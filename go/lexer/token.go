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
 * Script Lexer - Token Definitions
 *
 * Token kinds produced by the lexer together with the reserved keyword table.
 * The set of kinds is closed; keyword kinds differ from NAME only by lexeme.
 */

package lexer

import (
	"fmt"
	"sort"
)

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	NUMBER TokenKind = iota
	NAME

	// Keywords
	FUNC_KW
	RETURN_KW
	FOR_KW
	IF_KW
	ELSE_KW
	THEN_KW
	WHILE_KW

	// Arithmetic, comparison and assignment operators
	PLUS_SIGN         // +
	MINUS_SIGN        // -
	MULT_SIGN         // *
	DIV_SIGN          // /
	LESS_THAN_SIGN    // <
	GREATER_THAN_SIGN // >
	EQUALS_SIGN       // =
	INC_SIGN          // ++
	DEC_SIGN          // --
	EXP_SIGN          // **
	INC_BY_SIGN       // +=
	DEC_BY_SIGN       // -=
	MULT_ASSIGN_SIGN  // *=
	GREATER_EQ_SIGN   // >=
	LESS_EQ_SIGN      // <=
	LOGIC_EQ_SIGN     // ==

	// Punctuation
	OPEN_PAREN       // (
	CLOSE_PAREN      // )
	OPEN_BRACKET     // [
	CLOSE_BRACKET    // ]
	OPEN_CURLY       // {
	CLOSE_CURLY      // }
	CARROT           // ^
	BAR              // |
	PERCENT_SIGN     // %
	COLON_SIGN       // :
	TYPE_DECLARATION // ::
	SEMICOLON_SIGN   // ;
	HASH_SYMB        // #
	PERIOD           // .
	COMMA            // ,

	// Whitespace control, lexeme is always empty
	NEW_LINE
	TAB

	STRING_LITERAL
)

var tokenKindNames = map[TokenKind]string{
	NUMBER:            "NUMBER",
	NAME:              "NAME",
	FUNC_KW:           "FUNC_KW",
	RETURN_KW:         "RETURN_KW",
	FOR_KW:            "FOR_KW",
	IF_KW:             "IF_KW",
	ELSE_KW:           "ELSE_KW",
	THEN_KW:           "THEN_KW",
	WHILE_KW:          "WHILE_KW",
	PLUS_SIGN:         "PLUS_SIGN",
	MINUS_SIGN:        "MINUS_SIGN",
	MULT_SIGN:         "MULT_SIGN",
	DIV_SIGN:          "DIV_SIGN",
	LESS_THAN_SIGN:    "LESS_THAN_SIGN",
	GREATER_THAN_SIGN: "GREATER_THAN_SIGN",
	EQUALS_SIGN:       "EQUALS_SIGN",
	INC_SIGN:          "INC_SIGN",
	DEC_SIGN:          "DEC_SIGN",
	EXP_SIGN:          "EXP_SIGN",
	INC_BY_SIGN:       "INC_BY_SIGN",
	DEC_BY_SIGN:       "DEC_BY_SIGN",
	MULT_ASSIGN_SIGN:  "MULT_ASSIGN_SIGN",
	GREATER_EQ_SIGN:   "GREATER_EQ_SIGN",
	LESS_EQ_SIGN:      "LESS_EQ_SIGN",
	LOGIC_EQ_SIGN:     "LOGIC_EQ_SIGN",
	OPEN_PAREN:        "OPEN_PAREN",
	CLOSE_PAREN:       "CLOSE_PAREN",
	OPEN_BRACKET:      "OPEN_BRACKET",
	CLOSE_BRACKET:     "CLOSE_BRACKET",
	OPEN_CURLY:        "OPEN_CURLY",
	CLOSE_CURLY:       "CLOSE_CURLY",
	CARROT:            "CARROT",
	BAR:               "BAR",
	PERCENT_SIGN:      "PERCENT_SIGN",
	COLON_SIGN:        "COLON_SIGN",
	TYPE_DECLARATION:  "TYPE_DECLARATION",
	SEMICOLON_SIGN:    "SEMICOLON_SIGN",
	HASH_SYMB:         "HASH_SYMB",
	PERIOD:            "PERIOD",
	COMMA:             "COMMA",
	NEW_LINE:          "NEW_LINE",
	TAB:               "TAB",
	STRING_LITERAL:    "STRING_LITERAL",
}

// String returns the symbolic name of the kind.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// ParseTokenKind is the inverse of TokenKind.String.
func ParseTokenKind(name string) (TokenKind, bool) {
	for k, n := range tokenKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsKeyword reports whether the kind is one of the reserved word kinds.
func (k TokenKind) IsKeyword() bool {
	return k >= FUNC_KW && k <= WHILE_KW
}

// IsOperator reports whether the kind is an arithmetic, comparison or assignment operator.
func (k TokenKind) IsOperator() bool {
	return k >= PLUS_SIGN && k <= LOGIC_EQ_SIGN
}

// IsPunctuation reports whether the kind is a punctuation mark.
func (k TokenKind) IsPunctuation() bool {
	return k >= OPEN_PAREN && k <= COMMA
}

// IsWhitespace reports whether the kind is a significant whitespace token.
func (k TokenKind) IsWhitespace() bool {
	return k == NEW_LINE || k == TAB
}

// MarshalText renders the kind by name so encoders emit "NUMBER" rather than 0.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a single lexical unit.
type Token struct {
	Kind     TokenKind `json:"kind" yaml:"kind"`
	Lexeme   string    `json:"lexeme" yaml:"lexeme"`
	Position int       `json:"position" yaml:"position"` // byte offset of the first consumed character
}

// NewToken creates a token of the given kind.
func NewToken(kind TokenKind, lexeme string, position int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Position: position}
}

func (t Token) String() string {
	return fmt.Sprintf("TOKEN(Value: %q, Type: %s)", t.Lexeme, t.Kind)
}

// Reserved words. Matching is exact and case sensitive.
var keywords = map[string]TokenKind{
	"function": FUNC_KW,
	"return":   RETURN_KW,
	"for":      FOR_KW,
	"if":       IF_KW,
	"else":     ELSE_KW,
	"then":     THEN_KW,
	"while":    WHILE_KW,
}

// LookupKeyword returns the keyword kind for s, if s is a reserved word.
func LookupKeyword(s string) (TokenKind, bool) {
	kind, ok := keywords[s]
	return kind, ok
}

// Keywords returns the reserved words in alphabetical order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
