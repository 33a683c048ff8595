// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
)

type ListOpts struct {
	output string
}

var listOpts ListOpts

func init() {
	rootCmd.AddCommand(listCmd)

	flag := listCmd.Flags()
	flag.StringVarP(&listOpts.output, OutputFlag, OutputShortFlag, "table", "Output format (table, json, yaml)")
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List identities in the local identity store",
	Long: `List all identities found in the identity store, with their
fingerprints and whether the private half is present.

Output formats:
  - table: Human-readable table format (default)
  - json:  JSON format
  - yaml:  YAML format

Examples:
  # List all identities
  sshkeyctl list

  # List in JSON format
  sshkeyctl list -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(listOpts)
	},
}

func runList(opts ListOpts) error {
	infos, err := identity.List()
	if err != nil {
		return err
	}

	switch opts.output {
	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal identities to JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to marshal identities to YAML: %w", err)
		}
		fmt.Print(string(data))
	case "table":
		if len(infos) == 0 {
			fmt.Println("No identities found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tFINGERPRINT\tCOMMENT\tPRIVATE")
		for _, i := range infos {
			private := "yes"
			if !i.HasPrivate {
				private = "no"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", i.Name, i.Fingerprint, i.Comment, private)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q: must be table, json, or yaml", opts.output)
	}
	return nil
}
