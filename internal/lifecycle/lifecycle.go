// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

// Package lifecycle sequences the init, revoke, and renew operations over
// the identity store and the remote host, and defines the failure policy
// across each sequence. Local steps run strictly left to right; a step that
// fails stops the sequence, and completed local writes are never rolled
// back (generated keys are still valid local state).
package lifecycle

import (
	"context"
	"fmt"
	"os"

	"github.com/chez-shanpu/sshkeyctl/internal/identity"
	"github.com/chez-shanpu/sshkeyctl/internal/journal"
	"github.com/chez-shanpu/sshkeyctl/internal/keygen"
	"github.com/chez-shanpu/sshkeyctl/internal/remote"
)

// KeyGenerator produces serialized key material. Satisfied by keygen.Generate.
type KeyGenerator func(keygen.Options) (*keygen.Material, error)

// Deployer pushes a key to the remote host. Satisfied by *remote.CopyIDDeployer.
type Deployer interface {
	Deploy(ctx context.Context, privateKeyPath string, target identity.Target, port int) error
}

// Orchestrator wires the collaborators of one command invocation. Journal
// is optional; journal failures are reported to stderr and never fail the
// operation.
type Orchestrator struct {
	Generate KeyGenerator
	Deployer Deployer
	Revoker  remote.Revoker
	Journal  *journal.Journal
}

// InitRequest describes an init operation.
type InitRequest struct {
	Target     identity.Target
	Identity   string // empty means the target host
	Algorithm  keygen.Algorithm
	Comment    string
	Port       int
	Passphrase []byte
	Force      bool
}

// RevokeRequest describes a revoke operation.
type RevokeRequest struct {
	Target              identity.Target
	Identity            string // empty means the target host
	Port                int
	DeleteIdentityFiles bool
}

// RenewRequest composes a revoke followed by a forced init for the same
// identity slot.
type RenewRequest struct {
	Target              identity.Target
	Identity            string
	Algorithm           keygen.Algorithm
	Comment             string
	Port                int
	Passphrase          []byte
	DeleteIdentityFiles bool
}

// Init generates a keypair for the target, persists it to the identity
// store, and deploys the public half to the target's authorized_keys list.
// Without Force an existing key file fails the operation before anything is
// written. A deployment failure leaves the freshly written files on disk.
func (o *Orchestrator) Init(ctx context.Context, req InitRequest) error {
	name, err := identity.ResolveName(req.Target, req.Identity)
	if err != nil {
		return err
	}
	paths := identity.Paths(name)

	if !req.Force {
		for _, p := range []string{paths.PrivatePath, paths.PublicPath} {
			if _, err := os.Stat(p); err == nil {
				return &identity.ExistsError{Path: p}
			}
		}
	}

	material, err := o.Generate(keygen.Options{
		Algorithm:  req.Algorithm,
		Comment:    req.Comment,
		Passphrase: req.Passphrase,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(identity.StoreDir(), 0o700); err != nil {
		return fmt.Errorf("failed to create identity store: %w", err)
	}
	if err := identity.WriteFile(paths.PrivatePath, material.Private, true, req.Force); err != nil {
		return err
	}
	if err := identity.WriteFile(paths.PublicPath, material.Public, false, req.Force); err != nil {
		return err
	}

	err = o.Deployer.Deploy(ctx, paths.PrivatePath, req.Target, req.Port)
	o.record(journal.Entry{
		Action:   "deploy",
		Target:   req.Target.String(),
		Identity: name,
		Port:     req.Port,
		OK:       err == nil,
		Detail:   errDetail(err),
	})
	if err != nil {
		return fmt.Errorf("keys written to %s but deployment failed: %w", paths.PrivatePath, err)
	}
	return nil
}

// Revoke reads the identity's local public key and removes it from the
// target's authorized_keys list, optionally deleting the local key files
// afterwards. A missing local public key is fatal and no remote action is
// attempted. A local deletion failure after a successful remote revocation
// is returned, but the remote change stands — there is no undo for it.
func (o *Orchestrator) Revoke(ctx context.Context, req RevokeRequest) error {
	name, err := identity.ResolveName(req.Target, req.Identity)
	if err != nil {
		return err
	}
	paths := identity.Paths(name)

	publicKey, err := os.ReadFile(paths.PublicPath)
	if err != nil {
		return fmt.Errorf("failed to read public key for identity %q: %w", name, err)
	}

	err = o.Revoker.Revoke(ctx, req.Target, publicKey, req.Port)
	o.record(journal.Entry{
		Action:   "revoke",
		Target:   req.Target.String(),
		Identity: name,
		Port:     req.Port,
		OK:       err == nil,
		Detail:   errDetail(err),
	})
	if err != nil {
		return err
	}

	if req.DeleteIdentityFiles {
		for _, p := range []string{paths.PrivatePath, paths.PublicPath} {
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("key revoked remotely but local cleanup failed: %w", err)
			}
		}
	}
	return nil
}

// Renew runs Revoke to completion and, only if it succeeded, runs Init with
// force implied (the identity exists by definition of being renewed).
// Revoking first guarantees the remote host never holds two valid keys for
// the same identity slot, at the cost of a brief window with none.
func (o *Orchestrator) Renew(ctx context.Context, req RenewRequest) error {
	err := o.Revoke(ctx, RevokeRequest{
		Target:              req.Target,
		Identity:            req.Identity,
		Port:                req.Port,
		DeleteIdentityFiles: req.DeleteIdentityFiles,
	})
	if err != nil {
		return fmt.Errorf("renew aborted, revoke phase failed: %w", err)
	}

	err = o.Init(ctx, InitRequest{
		Target:     req.Target,
		Identity:   req.Identity,
		Algorithm:  req.Algorithm,
		Comment:    req.Comment,
		Port:       req.Port,
		Passphrase: req.Passphrase,
		Force:      true,
	})
	if err != nil {
		return fmt.Errorf("renew init phase failed: %w", err)
	}
	return nil
}

func (o *Orchestrator) record(e journal.Entry) {
	if o.Journal == nil {
		return
	}
	if err := o.Journal.Record(e); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record journal entry: %v\n", err)
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
