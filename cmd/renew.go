// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
	"github.com/chez-shanpu/sshkeyctl/internal/keygen"
	"github.com/chez-shanpu/sshkeyctl/internal/lifecycle"
)

type RenewOpts struct {
	keyType            string
	comment            string
	port               int
	passphrase         string
	deleteIdentityFile bool
}

var renewOpts RenewOpts

func init() {
	rootCmd.AddCommand(renewCmd)

	flag := renewCmd.Flags()
	flag.StringVarP(&renewOpts.keyType, TypeFlag, TypeShortFlag, "ed25519", "Key type (rsa, dsa, ecdsa, ed25519)")
	flag.StringVarP(&renewOpts.comment, CommentFlag, CommentShortFlag, "", "Comment for the new key (default <user>@<hostname>)")
	flag.IntVarP(&renewOpts.port, PortFlag, PortShortFlag, 22, "SSH port of the target host")
	flag.StringVarP(&renewOpts.passphrase, PassphraseFlag, PassphraseShortFlag, "", "Passphrase for the new private key")
	flag.BoolVar(&renewOpts.deleteIdentityFile, DeleteIdentityFileFlag, false, "Delete the old local key files after revoking")
}

// renewCmd represents the renew command
var renewCmd = &cobra.Command{
	Use:   "renew <target> [identity-name]",
	Short: "Revoke a deployed key and initialize a fresh one",
	Long: `Renew the identity for a target: revoke the currently deployed public
key, then generate and deploy a fresh keypair for the same identity slot
(overwriting the local key files).

Revocation runs first so the host never holds two valid keys for the same
slot. If the revoke phase fails, no new key is generated and the local
files are untouched.

Examples:
  # Rotate the key deployed on example.com
  sshkeyctl renew example.com

  # Rotate a named identity with a new passphrase
  sshkeyctl renew alice@example.com work-key -P newsecret`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		return runRenew(cmd, args[0], name, renewOpts)
	},
}

func runRenew(cmd *cobra.Command, targetArg, identityName string, opts RenewOpts) error {
	target, err := identity.ParseTarget(targetArg)
	if err != nil {
		return err
	}

	algo, err := keygen.ParseAlgorithm(opts.keyType)
	if err != nil {
		return err
	}

	var passphrase []byte
	if opts.passphrase != "" {
		passphrase = []byte(opts.passphrase)
	}

	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	err = o.Renew(cmd.Context(), lifecycle.RenewRequest{
		Target:              target,
		Identity:            identityName,
		Algorithm:           algo,
		Comment:             commentOrDefault(opts.comment),
		Port:                opts.port,
		Passphrase:          passphrase,
		DeleteIdentityFiles: opts.deleteIdentityFile,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Identity renewed on %s\n", target)
	return nil
}
