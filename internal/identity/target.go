// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package identity

import (
	"fmt"
	"strings"
)

// Target identifies a remote host, optionally qualified with a login user.
// The user part is informational: the effective remote login is whatever the
// SSH client resolves for the target string.
type Target struct {
	User string
	Host string
}

// InvalidTargetError reports a target string that does not match the
// [user@]host form.
type InvalidTargetError struct {
	Input string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q: expected host or user@host", e.Input)
}

// ParseTarget parses a target string of the form "host" or "user@host".
func ParseTarget(s string) (Target, error) {
	parts := strings.Split(s, "@")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Target{}, &InvalidTargetError{Input: s}
		}
		return Target{Host: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Target{}, &InvalidTargetError{Input: s}
		}
		return Target{User: parts[0], Host: parts[1]}, nil
	default:
		return Target{}, &InvalidTargetError{Input: s}
	}
}

// String returns the target in the form accepted by the SSH client.
func (t Target) String() string {
	if t.User == "" {
		return t.Host
	}
	return t.User + "@" + t.Host
}
