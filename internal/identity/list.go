// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Info describes one identity found in the store.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Comment     string `json:"comment" yaml:"comment"`
	HasPrivate  bool   `json:"hasPrivate" yaml:"hasPrivate"`
	PublicPath  string `json:"publicPath" yaml:"publicPath"`
}

// List returns information about all identities in the store. An identity
// is any <name>.pub file; the private half may or may not be present.
func List() ([]Info, error) {
	entries, err := os.ReadDir(storeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read identity store: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), pubKeyExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), pubKeyExt)
		pubPath := filepath.Join(storeDir, e.Name())

		info := Info{
			Name:       name,
			PublicPath: pubPath,
			HasPrivate: PrivateKeyExists(name),
		}

		data, err := os.ReadFile(pubPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key %s: %w", e.Name(), err)
		}
		if pub, comment, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
			info.Fingerprint = ssh.FingerprintSHA256(pub)
			info.Comment = comment
		}

		infos = append(infos, info)
	}
	return infos, nil
}
