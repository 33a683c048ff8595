// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ExistsError reports a write refused because the destination already exists
// and the caller did not pass force.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists (use --force to overwrite)", e.Path)
}

func (e *ExistsError) Unwrap() error { return fs.ErrExist }

// WriteFile writes data to path. Without force the write is
// exclusive-create: an existing file fails with *ExistsError and is left
// untouched. With force the file is created or truncated. Private files are
// held at mode 0600 before any content is written; on platforms without
// POSIX permission bits the hardening step is a no-op.
func WriteFile(path string, data []byte, private, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	if force {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	perm := os.FileMode(0o644)
	if private {
		perm = 0o600
	}

	f, err := os.OpenFile(path, flags, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &ExistsError{Path: path}
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if private {
		// The create mode is subject to umask, and a force-overwritten file
		// keeps whatever mode it had. Pin the handle to exactly 0600 before
		// content lands in it.
		if err := hardenOwnerOnly(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to restrict permissions on %s: %w", path, err)
		}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
