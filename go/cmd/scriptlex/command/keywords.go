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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/multigres/scriptlex/go/lexer"
)

// AddKeywordsCommand adds the keywords subcommand to the root command
func AddKeywordsCommand(root *cobra.Command, sc *ScriptlexCommand) {
	root.AddCommand(&cobra.Command{
		Use:   "keywords",
		Short: "List reserved words and their token kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WORD\tKIND")
			for _, word := range lexer.Keywords() {
				kind, _ := lexer.LookupKeyword(word)
				fmt.Fprintf(tw, "%s\t%s\n", word, kind)
			}
			return tw.Flush()
		},
	})
}
