// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

//go:build e2e

package test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/gomega"
)

// sshStub impersonates the ssh client. It appends its argument vector to
// STUB_SSH_LOG and interprets the remote command just far enough for the
// revokers: fetching and rewriting the fake authorized_keys file named by
// STUB_AUTHORIZED_KEYS.
const sshStub = `#!/bin/sh
set -eu
echo "$@" >> "$STUB_SSH_LOG"
shift 2 # -p <port>
shift 1 # <target>
cmd="$*"
case "$cmd" in
  *"cat > .ssh/authorized_keys.tmp"*)
    cat > "$STUB_AUTHORIZED_KEYS.tmp"
    mv "$STUB_AUTHORIZED_KEYS.tmp" "$STUB_AUTHORIZED_KEYS"
    ;;
  *"cat .ssh/authorized_keys"*)
    cat "$STUB_AUTHORIZED_KEYS" 2>/dev/null || true
    ;;
esac
`

// copyIDStub impersonates ssh-copy-id: it appends the .pub companion of the
// -i argument to the fake authorized_keys file and logs the call.
const copyIDStub = `#!/bin/sh
set -eu
echo "$@" >> "$STUB_DEPLOY_LOG"
priv="$2" # -i <path>
cat "$priv.pub" >> "$STUB_AUTHORIZED_KEYS"
`

// InstallStubBinaries writes the ssh and ssh-copy-id stand-ins into dir.
func InstallStubBinaries(dir string) {
	Expect(os.WriteFile(filepath.Join(dir, "ssh"), []byte(sshStub), 0o755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "ssh-copy-id"), []byte(copyIDStub), 0o755)).To(Succeed())
}
