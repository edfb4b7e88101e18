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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/multigres/scriptlex/go/lexer"
	"github.com/multigres/scriptlex/go/watch"
)

// WatchCmd holds the watch command configuration
type WatchCmd struct {
	sc *ScriptlexCommand
}

// AddWatchCommand adds the watch subcommand to the root command
func AddWatchCommand(root *cobra.Command, sc *ScriptlexCommand) {
	wc := &WatchCmd{sc: sc}
	root.AddCommand(wc.createCommand())
}

func (wc *WatchCmd) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-tokenize a file whenever it changes",
		Long: `Tokenize a file, then tokenize it again after every write until interrupted.

Examples:
  scriptlex watch main.sl
  scriptlex watch --show-errors=false main.sl

  # Keep a JSON dump next to the script up to date
  scriptlex watch -o json --output-file main.tokens.json main.sl`,
		Args: cobra.ExactArgs(1),
		RunE: wc.runWatch,
	}
}

func (wc *WatchCmd) runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := wc.sc.GetLogger()
	logger.Info("watching source", "path", args[0])

	return watch.Watch(ctx, wc.sc.fs, args[0], func(r *lexer.Result) error {
		if diags := r.Diagnostics(); len(diags) > 0 {
			logger.Warn("source contains lexical errors", "path", r.Source, "diagnostics", len(diags))
		}
		return wc.sc.emit(cmd, []*lexer.Result{r})
	})
}
