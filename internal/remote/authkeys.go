// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package remote

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// keyBlob decodes an authorized_keys line into its wire-format key blob.
func keyBlob(line []byte) ([]byte, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey(line)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return pub.Marshal(), nil
}

// filterAuthorizedKeys removes every line of an authorized_keys file whose
// decoded key blob equals blob. Lines that do not parse as public keys
// (comments, blank lines, garbage) are kept verbatim. Non-empty output is
// normalized to end with a single newline.
func filterAuthorizedKeys(content, blob []byte) (kept []byte, removed int) {
	if len(content) == 0 {
		return nil, 0
	}

	var out []string
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			if b, err := keyBlob([]byte(trimmed)); err == nil && bytes.Equal(b, blob) {
				removed++
				continue
			}
		}
		out = append(out, line)
	}

	if len(out) == 0 {
		return nil, removed
	}
	return []byte(strings.Join(out, "\n") + "\n"), removed
}
