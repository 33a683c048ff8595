// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
	"github.com/chez-shanpu/sshkeyctl/internal/lifecycle"
)

type RevokeOpts struct {
	port               int
	deleteIdentityFile bool
}

var revokeOpts RevokeOpts

func init() {
	rootCmd.AddCommand(revokeCmd)

	flag := revokeCmd.Flags()
	flag.IntVarP(&revokeOpts.port, PortFlag, PortShortFlag, 22, "SSH port of the target host")
	flag.BoolVar(&revokeOpts.deleteIdentityFile, DeleteIdentityFileFlag, false, "Delete the local key files after a successful remote revocation")
}

// revokeCmd represents the revoke command
var revokeCmd = &cobra.Command{
	Use:   "revoke <target> [identity-name]",
	Short: "Remove a deployed public key from a host",
	Long: `Remove this identity's public key from the target's authorized_keys
list. The key to remove is read from the local identity store; by default
the identity is named after the bare host portion of the target, but an
explicit identity name can be given as a second argument.

Revoking a key that is not present on the host is a no-op success.

Examples:
  # Revoke the identity for example.com
  sshkeyctl revoke example.com

  # Revoke an explicitly named identity and delete the local files
  sshkeyctl revoke alice@example.com work-key --delete-identity-file`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		return runRevoke(cmd, args[0], name, revokeOpts)
	},
}

func runRevoke(cmd *cobra.Command, targetArg, identityName string, opts RevokeOpts) error {
	target, err := identity.ParseTarget(targetArg)
	if err != nil {
		return err
	}

	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	err = o.Revoke(cmd.Context(), lifecycle.RevokeRequest{
		Target:              target,
		Identity:            identityName,
		Port:                opts.port,
		DeleteIdentityFiles: opts.deleteIdentityFile,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Key revoked on %s\n", target)
	return nil
}
