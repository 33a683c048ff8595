// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package cmd

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
	"github.com/chez-shanpu/sshkeyctl/internal/keygen"
	"github.com/chez-shanpu/sshkeyctl/internal/lifecycle"
)

type InitOpts struct {
	keyType    string
	comment    string
	port       int
	passphrase string
	force      bool
}

var initOpts InitOpts

func init() {
	rootCmd.AddCommand(initCmd)

	flag := initCmd.Flags()
	flag.StringVarP(&initOpts.keyType, TypeFlag, TypeShortFlag, "ed25519", "Key type (rsa, dsa, ecdsa, ed25519)")
	flag.StringVarP(&initOpts.comment, CommentFlag, CommentShortFlag, "", "Comment for the key (default <user>@<hostname>)")
	flag.IntVarP(&initOpts.port, PortFlag, PortShortFlag, 22, "SSH port of the target host")
	flag.StringVarP(&initOpts.passphrase, PassphraseFlag, PassphraseShortFlag, "", "Passphrase for the private key (stored unencrypted if empty)")
	flag.BoolVarP(&initOpts.force, ForceFlag, ForceShortFlag, false, "Overwrite existing key files")
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init <target>",
	Short: "Generate a keypair for a host and deploy the public key",
	Long: `Generate a keypair for a remote target, store it in the identity store
(~/.ssh by default, private key mode 0600), and append the public key to
the target's authorized_keys list via ssh-copy-id.

The key files are named after the bare host portion of the target:
<store>/<host> and <store>/<host>.pub. Existing files are never
overwritten unless --force is given.

Examples:
  # Generate an ed25519 identity for example.com and deploy it
  sshkeyctl init alice@example.com

  # RSA key with passphrase on a non-standard port
  sshkeyctl init example.com -t rsa -P secret -p 2222

  # Replace an existing identity
  sshkeyctl init example.com --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd, args[0], initOpts)
	},
}

func runInit(cmd *cobra.Command, targetArg string, opts InitOpts) error {
	req, err := buildInitRequest(targetArg, opts)
	if err != nil {
		return err
	}

	o, err := newOrchestrator()
	if err != nil {
		return err
	}
	if err := o.Init(cmd.Context(), req); err != nil {
		return err
	}

	paths := identity.Paths(initIdentityName(req))
	fmt.Printf("Identity initialized and deployed to %s\nPrivate key: %s\nPublic key:  %s\n",
		req.Target, paths.PrivatePath, paths.PublicPath)
	return nil
}

func buildInitRequest(targetArg string, opts InitOpts) (lifecycle.InitRequest, error) {
	target, err := identity.ParseTarget(targetArg)
	if err != nil {
		return lifecycle.InitRequest{}, err
	}

	algo, err := keygen.ParseAlgorithm(opts.keyType)
	if err != nil {
		return lifecycle.InitRequest{}, err
	}

	var passphrase []byte
	if opts.passphrase != "" {
		passphrase = []byte(opts.passphrase)
	}

	return lifecycle.InitRequest{
		Target:     target,
		Algorithm:  algo,
		Comment:    commentOrDefault(opts.comment),
		Port:       opts.port,
		Passphrase: passphrase,
		Force:      opts.force,
	}, nil
}

func initIdentityName(req lifecycle.InitRequest) string {
	if req.Identity != "" {
		return req.Identity
	}
	return req.Target.Host
}

// commentOrDefault falls back to the ssh-keygen convention of
// <user>@<hostname> for the generating machine.
func commentOrDefault(comment string) string {
	if comment != "" {
		return comment
	}
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}
	u, err := user.Current()
	if err != nil {
		return hostname
	}
	return u.Username + "@" + hostname
}
