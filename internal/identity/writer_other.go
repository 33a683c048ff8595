// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

//go:build !unix

package identity

import "os"

// Windows and friends have no POSIX permission bits to restrict.
func hardenOwnerOnly(_ *os.File) error {
	return nil
}
