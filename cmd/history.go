// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chez-shanpu/sshkeyctl/internal/journal"
)

type HistoryOpts struct {
	output string
}

var historyOpts HistoryOpts

func init() {
	rootCmd.AddCommand(historyCmd)

	flag := historyCmd.Flags()
	flag.StringVarP(&historyOpts.output, OutputFlag, OutputShortFlag, "table", "Output format (table, json, yaml)")
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the deployment journal",
	Long: `Show the append-only journal of attempted deploy and revoke
operations. The journal is diagnostic only: it records what this tool
tried and whether it succeeded, but nothing consults it for correctness.
It exists so a crash between the two phases of a renew can be diagnosed.

Examples:
  # Show the journal
  sshkeyctl history

  # Show the journal as YAML
  sshkeyctl history -o yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(historyOpts)
	},
}

func runHistory(opts HistoryOpts) error {
	path := cfg.JournalPath
	if path == "" {
		var err error
		path, err = journal.DefaultPath()
		if err != nil {
			return err
		}
	}

	entries, err := journal.Open(path).Entries()
	if err != nil {
		return err
	}

	switch opts.output {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal journal to JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal journal to YAML: %w", err)
		}
		fmt.Print(string(data))
	case "table":
		if len(entries) == 0 {
			fmt.Println("No journal entries found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tTARGET\tIDENTITY\tPORT\tRESULT\tDETAIL")
		for _, e := range entries {
			result := "ok"
			if !e.OK {
				result = "failed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				e.Time.Format(time.RFC3339), e.Action, e.Target, e.Identity, e.Port, result, e.Detail)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q: must be table, json, or yaml", opts.output)
	}
	return nil
}
