// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

// Package config collects the environment-driven settings of sshkeyctl.
// Everything has a working default; the environment exists for tests and
// unusual setups, not day-to-day use.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Revoke strategy names accepted in Config.RevokeMode.
const (
	RevokeModeRewrite    = "rewrite"
	RevokeModeStreamEdit = "sed"
)

// Config holds the runtime settings, populated from SSHKEYCTL_* variables.
type Config struct {
	// StoreDir overrides the identity store directory (default ~/.ssh).
	StoreDir string `envconfig:"STORE_DIR"`
	// SSHBin and CopyIDBin name the external client binaries.
	SSHBin    string `envconfig:"SSH_BIN" default:"ssh"`
	CopyIDBin string `envconfig:"COPY_ID_BIN" default:"ssh-copy-id"`
	// RevokeMode selects how remote authorized_keys lines are deleted:
	// "rewrite" (fetch, filter by exact key blob, write back) or "sed"
	// (remote stream-edit, requires GNU sed on the target).
	RevokeMode string `envconfig:"REVOKE_MODE" default:"rewrite"`
	// JournalPath overrides the deployment journal location.
	JournalPath string `envconfig:"JOURNAL_PATH"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("sshkeyctl", &c); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if c.RevokeMode != RevokeModeRewrite && c.RevokeMode != RevokeModeStreamEdit {
		return nil, fmt.Errorf("invalid SSHKEYCTL_REVOKE_MODE %q: must be %q or %q",
			c.RevokeMode, RevokeModeRewrite, RevokeModeStreamEdit)
	}
	return &c, nil
}
