// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

// Package keygen produces SSH key material in the OpenSSH on-disk formats:
// a PEM-armored private key (optionally passphrase-encrypted) and a
// single-line authorized_keys public key.
package keygen

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

const rsaKeyBits = 3072

// Algorithm names an asymmetric key algorithm.
type Algorithm string

const (
	AlgorithmRSA     Algorithm = "rsa"
	AlgorithmDSA     Algorithm = "dsa"
	AlgorithmECDSA   Algorithm = "ecdsa"
	AlgorithmED25519 Algorithm = "ed25519"
)

// ParseAlgorithm validates a user-supplied key type string.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(s)) {
	case AlgorithmRSA:
		return AlgorithmRSA, nil
	case AlgorithmDSA:
		return AlgorithmDSA, nil
	case AlgorithmECDSA:
		return AlgorithmECDSA, nil
	case AlgorithmED25519:
		return AlgorithmED25519, nil
	default:
		return "", fmt.Errorf("unknown key type %q: must be one of rsa, dsa, ecdsa, or ed25519", s)
	}
}

// GenerationError reports a failure to generate or serialize key material.
type GenerationError struct {
	Algorithm Algorithm
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s key: %v", e.Algorithm, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Options controls key generation.
type Options struct {
	Algorithm  Algorithm
	Comment    string
	Passphrase []byte // nil means the private key is stored unencrypted
}

// Material is a freshly generated keypair, serialized and ready to persist.
type Material struct {
	Algorithm Algorithm
	Comment   string
	Private   []byte // OpenSSH PEM
	Public    []byte // authorized_keys line, newline-terminated
}

// Generate creates a new keypair and serializes both halves. Passphrase
// protection uses the OpenSSH aes256-ctr/bcrypt scheme.
func Generate(opts Options) (*Material, error) {
	priv, err := generateKey(opts.Algorithm)
	if err != nil {
		return nil, &GenerationError{Algorithm: opts.Algorithm, Err: err}
	}

	var block *pem.Block
	if len(opts.Passphrase) > 0 {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, opts.Comment, opts.Passphrase)
	} else {
		block, err = ssh.MarshalPrivateKey(priv, opts.Comment)
	}
	if err != nil {
		return nil, &GenerationError{Algorithm: opts.Algorithm, Err: fmt.Errorf("marshal private key: %w", err)}
	}

	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, &GenerationError{Algorithm: opts.Algorithm, Err: fmt.Errorf("key does not implement crypto.Signer")}
	}
	sshPub, err := ssh.NewPublicKey(signer.Public())
	if err != nil {
		return nil, &GenerationError{Algorithm: opts.Algorithm, Err: fmt.Errorf("create ssh public key: %w", err)}
	}

	pubLine := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if opts.Comment != "" {
		pubLine = pubLine + " " + opts.Comment
	}

	return &Material{
		Algorithm: opts.Algorithm,
		Comment:   opts.Comment,
		Private:   pem.EncodeToMemory(block),
		Public:    []byte(pubLine + "\n"),
	}, nil
}

func generateKey(algo Algorithm) (crypto.PrivateKey, error) {
	switch algo {
	case AlgorithmED25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		return priv, err
	case AlgorithmECDSA:
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case AlgorithmRSA:
		return rsa.GenerateKey(rand.Reader, rsaKeyBits)
	case AlgorithmDSA:
		// OpenSSH dropped ssh-dss and the OpenSSH private key format has no
		// DSA marshalling in x/crypto. Refuse rather than emit a key no
		// server would accept.
		return nil, fmt.Errorf("dsa keys are no longer supported by OpenSSH")
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algo)
	}
}
