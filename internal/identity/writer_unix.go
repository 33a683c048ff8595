// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

//go:build unix

package identity

import "os"

func hardenOwnerOnly(f *os.File) error {
	return f.Chmod(0o600)
}
