// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

// Package remote pushes public keys to a remote host's authorized_keys list
// and removes them again. All remote access goes through the local SSH
// client binaries; this package never speaks the SSH protocol itself.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
)

// CommandError reports a remote operation that spawned but failed, or could
// not be spawned at all. Status is the external process exit code, or -1
// when the process never ran.
type CommandError struct {
	Op     string // "deploy" or "revoke"
	Status int
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed with exit status %d", e.Op, e.Status)
	if e.Status < 0 {
		msg = fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes a shell command on a remote target and returns its stdout.
type Runner interface {
	Run(ctx context.Context, target identity.Target, port int, stdin io.Reader, command string) ([]byte, error)
}

// SSHRunner runs remote commands through the local ssh binary.
type SSHRunner struct {
	Bin string
}

func (r *SSHRunner) Run(ctx context.Context, target identity.Target, port int, stdin io.Reader, command string) ([]byte, error) {
	bin := r.Bin
	if bin == "" {
		bin = "ssh"
	}

	cmd := exec.CommandContext(ctx, bin, "-p", strconv.Itoa(port), target.String(), command)
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		status := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			status = exitErr.ExitCode()
		}
		return nil, &CommandError{Op: "revoke", Status: status, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}
