// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package remote

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
)

// CopyIDDeployer appends a public key to the remote authorized_keys list by
// running the external ssh-copy-id utility. The utility locates the .pub
// companion of the given private key itself; its stdio is inherited so any
// password prompt reaches the operator.
type CopyIDDeployer struct {
	Bin string
}

func (d *CopyIDDeployer) Deploy(ctx context.Context, privateKeyPath string, target identity.Target, port int) error {
	bin := d.Bin
	if bin == "" {
		bin = "ssh-copy-id"
	}

	cmd := exec.CommandContext(ctx, bin, deployArgs(privateKeyPath, target, port)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		status := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			status = exitErr.ExitCode()
		}
		return &CommandError{Op: "deploy", Status: status, Err: err}
	}
	return nil
}

func deployArgs(privateKeyPath string, target identity.Target, port int) []string {
	return []string{"-i", privateKeyPath, "-p", strconv.Itoa(port), target.String()}
}
