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

package command

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/multigres/scriptlex/go/lexer"
)

const stdinSource = "-"

// LexCmd holds the lex command configuration
type LexCmd struct {
	sc *ScriptlexCommand
}

// AddLexCommand adds the lex subcommand to the root command
func AddLexCommand(root *cobra.Command, sc *ScriptlexCommand) {
	lc := &LexCmd{sc: sc}
	root.AddCommand(lc.createCommand())
}

func (lc *LexCmd) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lex FILE...",
		Short: "Tokenize source files",
		Long: `Tokenize one or more source files and print their tokens.

Each file is lexed on its own. Tokens are printed in source order, followed by
the error log unless --show-errors=false. Use "-" to read from standard input.

Examples:
  # Print tokens of a script
  scriptlex lex main.sl

  # Emit machine readable output
  scriptlex lex -o json main.sl util.sl

  # Write the dump to a file instead of stdout
  scriptlex lex -o yaml --output-file tokens.yaml main.sl

  # Use in CI to reject scripts with lexical errors
  scriptlex lex --fail-on-diagnostics scripts/*.sl`,
		Args: cobra.MinimumNArgs(1),
		RunE: lc.runLex,
	}
}

func (lc *LexCmd) runLex(cmd *cobra.Command, args []string) error {
	results := make([]*lexer.Result, 0, len(args))
	for _, path := range args {
		var (
			result *lexer.Result
			err    error
		)
		if path == stdinSource {
			result, err = lexReader("<stdin>", cmd.InOrStdin())
		} else {
			result, err = lc.sc.lexFile(path)
		}
		if err != nil {
			return err
		}
		lc.sc.GetLogger().Debug("lexed source", "source", result.Source, "tokens", len(result.Tokens), "errors", len(result.Errors))
		results = append(results, result)
	}

	if err := lc.sc.emit(cmd, results); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	return lc.sc.checkDiagnostics(results)
}

func lexReader(source string, r io.Reader) (*lexer.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return lexer.TokenizeSource(source, string(data)), nil
}
