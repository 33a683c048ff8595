// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package remote

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
)

const authorizedKeysPath = ".ssh/authorized_keys"

// Revoker removes a public key from a remote host's authorized_keys list.
// Removing a key that is not present succeeds without error.
type Revoker interface {
	Revoke(ctx context.Context, target identity.Target, publicKey []byte, port int) error
}

// RewriteRevoker fetches the remote authorized_keys file, drops every line
// whose decoded key blob matches the given public key exactly, and writes
// the filtered content back. Exact blob matching avoids the substring
// hazard of pattern-based deletion; the write-back is skipped entirely when
// nothing matched.
type RewriteRevoker struct {
	Runner Runner
}

func (r *RewriteRevoker) Revoke(ctx context.Context, target identity.Target, publicKey []byte, port int) error {
	blob, err := keyBlob(bytes.TrimSpace(publicKey))
	if err != nil {
		return fmt.Errorf("local public key is not a valid authorized_keys line: %w", err)
	}

	// A host that never had the key has nothing to revoke.
	content, err := r.Runner.Run(ctx, target, port,
		nil, fmt.Sprintf("cat %s 2>/dev/null || true", authorizedKeysPath))
	if err != nil {
		return err
	}

	kept, removed := filterAuthorizedKeys(content, blob)
	if removed == 0 {
		return nil
	}

	writeBack := fmt.Sprintf("cat > %[1]s.tmp && mv %[1]s.tmp %[1]s", authorizedKeysPath)
	if _, err := r.Runner.Run(ctx, target, port, bytes.NewReader(kept), writeBack); err != nil {
		return err
	}
	return nil
}

// StreamEditRevoker deletes matching lines with a remote sed invocation,
// the way ssh operators traditionally do it by hand. The match is a
// substring match on the escaped key text: a key whose base64 body is a
// literal substring of another key's body would take both out. Prefer
// RewriteRevoker unless the target lacks a usable shell pipeline; sed -i is
// also a GNU extension that not every remote sed implements.
type StreamEditRevoker struct {
	Runner Runner
}

func (r *StreamEditRevoker) Revoke(ctx context.Context, target identity.Target, publicKey []byte, port int) error {
	pattern := escapeSedPattern(strings.TrimSpace(string(publicKey)))
	command := fmt.Sprintf("sed -i '/%s/d' %s", pattern, authorizedKeysPath)
	_, err := r.Runner.Run(ctx, target, port, nil, command)
	return err
}

// escapeSedPattern escapes the pattern delimiter so a key line can be
// embedded in a /.../d address. Key text is algorithm name, base64 and
// comment; '/' is the only character in that alphabet that sed treats
// specially here.
func escapeSedPattern(s string) string {
	return strings.ReplaceAll(s, "/", `\/`)
}
