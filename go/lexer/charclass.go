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
 * Script Lexer - Character Classification
 *
 * Lookup-table classification of input bytes. Everything outside the tables
 * (including all non-ASCII bytes) is treated as disallowed input.
 */

package lexer

// CharClass is a set of classification flags for one byte.
type CharClass uint8

const (
	ClassDigit    CharClass = 1 << iota // 0-9
	ClassAlpha                          // a-z, A-Z
	ClassNameCont                       // letters and underscore
	ClassAllowed                        // characters accepted in source text
)

// allowedPunctuation lists the non-alphanumeric characters source text may contain.
const allowedPunctuation = ".,#:;><+*/-()^|%=[]{}'\" \n\t"

var charClassTable [256]CharClass

func init() {
	for b := byte('0'); b <= '9'; b++ {
		charClassTable[b] |= ClassDigit | ClassAllowed
	}
	for b := byte('a'); b <= 'z'; b++ {
		charClassTable[b] |= ClassAlpha | ClassNameCont | ClassAllowed
	}
	for b := byte('A'); b <= 'Z'; b++ {
		charClassTable[b] |= ClassAlpha | ClassNameCont | ClassAllowed
	}

	// Underscore may continue a name but is not an allowed source character on its own.
	charClassTable['_'] |= ClassNameCont

	for _, b := range []byte(allowedPunctuation) {
		charClassTable[b] |= ClassAllowed
	}
}

// IsDigit checks if a byte is a decimal digit (0-9)
func IsDigit(b byte) bool {
	return charClassTable[b]&ClassDigit != 0
}

// IsAlpha checks if a byte is an ASCII letter
func IsAlpha(b byte) bool {
	return charClassTable[b]&ClassAlpha != 0
}

// IsAlphaNumeric checks if a byte can start a name
func IsAlphaNumeric(b byte) bool {
	return IsAlpha(b) || IsDigit(b)
}

// IsNameCont checks if a byte can continue a name. Digits cannot.
func IsNameCont(b byte) bool {
	return charClassTable[b]&ClassNameCont != 0
}

// IsAllowed checks if a byte belongs to the source character set
func IsAllowed(b byte) bool {
	return charClassTable[b]&ClassAllowed != 0
}

// AllAllowed reports whether every byte of s is an allowed source character.
func AllAllowed(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsAllowed(s[i]) {
			return false
		}
	}
	return true
}
