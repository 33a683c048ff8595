// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const pubKeyExt = ".pub"

var storeDir string

// InitStoreDir initializes the identity store directory path. An explicit
// dir (typically from configuration) wins; otherwise the conventional
// ~/.ssh directory is used.
func InitStoreDir(dir string) error {
	if dir != "" {
		storeDir = dir
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}
	storeDir = filepath.Join(home, ".ssh")
	return nil
}

// StoreDir returns the identity store directory path.
func StoreDir() string {
	return storeDir
}

// FilePair holds the on-disk locations of one identity's key files.
type FilePair struct {
	PrivatePath string
	PublicPath  string
}

// validateName checks that the identity name is safe for use as a filename.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("identity name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid identity name %q: must not contain path separators or '..'", name)
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid identity name %q: must be a simple filename", name)
	}
	return nil
}

// ResolveName picks the identity name for a target: an explicit name wins,
// otherwise the bare host portion of the target is used.
func ResolveName(t Target, explicit string) (string, error) {
	name := explicit
	if name == "" {
		name = t.Host
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Paths returns the private/public key file pair for a named identity.
func Paths(name string) FilePair {
	priv := filepath.Join(storeDir, name)
	return FilePair{
		PrivatePath: priv,
		PublicPath:  priv + pubKeyExt,
	}
}

// PrivateKeyExists checks if a named private key exists in the store.
func PrivateKeyExists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(Paths(name).PrivatePath)
	return err == nil
}
