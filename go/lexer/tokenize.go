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

package lexer

// Tokenize runs a lexer over input until a terminal signal and returns the
// tokens produced along with the complete error log, which always ends with
// the terminal EOF or EMPTY_STRING record.
func Tokenize(input string) ([]Token, []LexError) {
	l := NewLexer(input)
	tokens := make([]Token, 0)

	for {
		tok, kind := l.Lex()
		if kind.IsTerminal() {
			break
		}
		if kind == SUCCESS {
			tokens = append(tokens, *tok)
		}
	}

	return tokens, l.Errors()
}

// Result is the outcome of lexing one named source.
type Result struct {
	Source string     `json:"source" yaml:"source"`
	Tokens []Token    `json:"tokens" yaml:"tokens"`
	Errors []LexError `json:"errors" yaml:"errors"`
}

// Diagnostics returns the recorded errors other than the terminal EOF record.
func (r *Result) Diagnostics() []LexError {
	out := make([]LexError, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Kind != EOF {
			out = append(out, e)
		}
	}
	return out
}

// TokenizeSource is Tokenize with the source name attached to the result.
func TokenizeSource(source, input string) *Result {
	tokens, errs := Tokenize(input)
	return &Result{Source: source, Tokens: tokens, Errors: errs}
}
