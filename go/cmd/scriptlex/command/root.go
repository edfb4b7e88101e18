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
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/multigres/scriptlex/go/fileutil"
	"github.com/multigres/scriptlex/go/lexer"
	"github.com/multigres/scriptlex/go/servenv"
	"github.com/multigres/scriptlex/go/tokendump"
	"github.com/multigres/scriptlex/go/viperutil"
)

// ErrLexicalDiagnostics is returned when --fail-on-diagnostics is set and a
// source produced lexical errors other than end of file.
var ErrLexicalDiagnostics = errors.New("lexical diagnostics reported")

// ScriptlexCommand holds the configuration shared by scriptlex commands
type ScriptlexCommand struct {
	reg               *viperutil.Registry
	outputFormat      viperutil.Value[tokendump.OutputFormat]
	showErrors        viperutil.Value[bool]
	failOnDiagnostics viperutil.Value[bool]
	outputFile        viperutil.Value[string]
	detailedErrors    viperutil.Value[bool]
	excludeKinds      viperutil.Value[[]string]
	vc                *viperutil.ViperConfig
	lg                *servenv.Logger
	fs                afero.Fs
}

// GetRootCommand creates the root command backed by the OS filesystem.
func GetRootCommand() (*cobra.Command, *ScriptlexCommand) {
	return NewRootCommand(afero.NewOsFs())
}

// NewRootCommand creates the root command with all subcommands. Sources and
// config files are read through fs.
func NewRootCommand(fs afero.Fs) (*cobra.Command, *ScriptlexCommand) {
	reg := viperutil.NewRegistry()
	sc := &ScriptlexCommand{
		reg: reg,
		outputFormat: viperutil.Configure(reg, "output-format", viperutil.Options[tokendump.OutputFormat]{
			Default:  tokendump.FormatText,
			FlagName: "output-format",
			GetFunc:  tokendump.GetFormatValue,
		}),
		showErrors: viperutil.Configure(reg, "show-errors", viperutil.Options[bool]{
			Default:  true,
			FlagName: "show-errors",
		}),
		failOnDiagnostics: viperutil.Configure(reg, "fail-on-diagnostics", viperutil.Options[bool]{
			Default:  false,
			FlagName: "fail-on-diagnostics",
		}),
		outputFile: viperutil.Configure(reg, "output-file", viperutil.Options[string]{
			Default:  "",
			FlagName: "output-file",
		}),
		detailedErrors: viperutil.Configure(reg, "detailed-errors", viperutil.Options[bool]{
			Default:  false,
			FlagName: "detailed-errors",
		}),
		excludeKinds: viperutil.Configure(reg, "exclude-kinds", viperutil.Options[[]string]{
			Default:  []string{},
			FlagName: "exclude-kinds",
		}),
		vc: viperutil.NewViperConfig(reg),
		lg: servenv.NewLogger(reg),
		fs: fs,
	}
	reg.Viper().SetFs(fs)

	// LoadConfig runs before logging is configured, so report the file once
	// the real handler is installed.
	sc.lg.OnLoggingSetup(func(l *slog.Logger) {
		if used := reg.ConfigFileUsed(); used != "" {
			l.Info("using config file", "path", used)
		}
	})

	root := &cobra.Command{
		Use:   "scriptlex",
		Short: "Tokenizer for the script language",
		Long: `scriptlex turns script source files into tokens.

Lexical problems do not stop a run: they are collected in an error log which is
printed after the tokens. Configuration can be provided via config file,
environment variables (SCRIPTLEX_ prefix), or CLI flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := sc.vc.LoadConfig(sc.reg); err != nil {
				return err
			}
			sc.lg.SetupLogging()
			if _, err := sc.dumpOptions(); err != nil {
				return err
			}
			return nil
		},
	}

	f := sc.outputFormat.Default()
	root.PersistentFlags().VarP(&f, "output-format", "o", fmt.Sprintf("Output format (Options: %s)", strings.Join(tokendump.FormatNames(), ", ")))
	root.PersistentFlags().Bool("show-errors", sc.showErrors.Default(), "Print the error log after the tokens")
	root.PersistentFlags().Bool("fail-on-diagnostics", sc.failOnDiagnostics.Default(), "Exit non-zero when a source has lexical errors")
	root.PersistentFlags().String("output-file", sc.outputFile.Default(), "Write output to this file (replaced atomically) instead of stdout")
	root.PersistentFlags().Bool("detailed-errors", sc.detailedErrors.Default(), "Print error log entries with kind, nearby text and byte position")
	root.PersistentFlags().StringSlice("exclude-kinds", sc.excludeKinds.Default(), "Token kinds (NEW_LINE, NAME, ...) or classes (keyword, operator, punctuation, whitespace) to leave out of the output")
	sc.vc.RegisterFlags(root.PersistentFlags())
	sc.lg.RegisterFlags(root.PersistentFlags())

	viperutil.BindFlags(root.PersistentFlags(),
		sc.outputFormat,
		sc.showErrors,
		sc.failOnDiagnostics,
		sc.outputFile,
		sc.detailedErrors,
		sc.excludeKinds,
	)

	AddLexCommand(root, sc)
	AddWatchCommand(root, sc)
	AddKeywordsCommand(root, sc)
	AddConfigCommand(root, sc)

	return root, sc
}

// GetLogger returns the logger configured for this command.
func (sc *ScriptlexCommand) GetLogger() *slog.Logger {
	return sc.lg.GetLogger()
}

func (sc *ScriptlexCommand) dumpOptions() (tokendump.Options, error) {
	exclude, err := tokendump.ParseKindFilter(sc.excludeKinds.Get())
	if err != nil {
		return tokendump.Options{}, fmt.Errorf("invalid exclude-kinds: %w", err)
	}
	return tokendump.Options{
		Format:     sc.outputFormat.Get(),
		ShowErrors: sc.showErrors.Get(),
		Detailed:   sc.detailedErrors.Get(),
		Exclude:    exclude,
	}, nil
}

// emit renders results to --output-file when set, otherwise to the command's
// output stream.
func (sc *ScriptlexCommand) emit(cmd *cobra.Command, results []*lexer.Result) error {
	opts, err := sc.dumpOptions()
	if err != nil {
		return err
	}

	path := sc.outputFile.Get()
	if path == "" {
		return tokendump.Write(cmd.OutOrStdout(), results, opts)
	}

	var buf bytes.Buffer
	if err := tokendump.Write(&buf, results, opts); err != nil {
		return err
	}
	if err := fileutil.AtomicWriteFile(sc.fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	sc.GetLogger().Debug("wrote output", "path", path, "bytes", buf.Len())
	return nil
}

func (sc *ScriptlexCommand) lexFile(path string) (*lexer.Result, error) {
	data, err := afero.ReadFile(sc.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lexer.TokenizeSource(path, string(data)), nil
}

// checkDiagnostics logs a summary of results and reports
// ErrLexicalDiagnostics when configured to.
func (sc *ScriptlexCommand) checkDiagnostics(results []*lexer.Result) error {
	logger := sc.GetLogger()

	var tokens, diagnostics int
	for _, r := range results {
		tokens += len(r.Tokens)
		diags := r.Diagnostics()
		diagnostics += len(diags)
		for _, d := range diags {
			logger.Debug("lexical error", "source", r.Source, "kind", d.Kind.String(), "line", d.Location.Line, "column", d.Location.Column)
		}
	}
	logger.Info("lexed sources", "sources", len(results), "tokens", tokens, "diagnostics", diagnostics)

	if diagnostics == 0 {
		return nil
	}
	if sc.failOnDiagnostics.Get() {
		return fmt.Errorf("%w: %d in %d source(s)", ErrLexicalDiagnostics, diagnostics, len(results))
	}
	logger.Warn("sources contain lexical errors", "diagnostics", diagnostics)
	return nil
}
