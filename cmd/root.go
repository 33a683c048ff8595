// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chez-shanpu/sshkeyctl/internal/config"
	"github.com/chez-shanpu/sshkeyctl/internal/identity"
	"github.com/chez-shanpu/sshkeyctl/internal/journal"
	"github.com/chez-shanpu/sshkeyctl/internal/keygen"
	"github.com/chez-shanpu/sshkeyctl/internal/lifecycle"
	"github.com/chez-shanpu/sshkeyctl/internal/remote"
)

var (
	// Version information. These are set via ldflags during build.
	version = "dev"
	commit  = "none"
)

const (
	PortFlag      = "port"
	PortShortFlag = "p"

	ForceFlag      = "force"
	ForceShortFlag = "f"

	TypeFlag      = "type"
	TypeShortFlag = "t"

	CommentFlag      = "comment"
	CommentShortFlag = "c"

	PassphraseFlag      = "passphrase"
	PassphraseShortFlag = "P"

	DeleteIdentityFileFlag = "delete-identity-file"

	OutputFlag      = "output"
	OutputShortFlag = "o"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "sshkeyctl",
	Short:        "Manage the lifecycle of per-host SSH identities",
	SilenceUsage: true,
	Version:      version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return identity.InitStoreDir(cfg.StoreDir)
	},
}

func init() {
	// Customize version output template
	rootCmd.SetVersionTemplate(fmt.Sprintf("sshkeyctl version %s (commit: %s)\n", version, commit))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newOrchestrator wires the lifecycle collaborators from the loaded
// configuration.
func newOrchestrator() (*lifecycle.Orchestrator, error) {
	runner := &remote.SSHRunner{Bin: cfg.SSHBin}

	var revoker remote.Revoker
	switch cfg.RevokeMode {
	case config.RevokeModeStreamEdit:
		revoker = &remote.StreamEditRevoker{Runner: runner}
	default:
		revoker = &remote.RewriteRevoker{Runner: runner}
	}

	journalPath := cfg.JournalPath
	if journalPath == "" {
		var err error
		journalPath, err = journal.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return &lifecycle.Orchestrator{
		Generate: keygen.Generate,
		Deployer: &remote.CopyIDDeployer{Bin: cfg.CopyIDBin},
		Revoker:  revoker,
		Journal:  journal.Open(journalPath),
	}, nil
}
