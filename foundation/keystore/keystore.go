// Package keystore implements the auth.KeyLookup interface. This implements
// an in-memory keystore for JWT support.
package keystore

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// key represents key information.
type key struct {
	privatePEM string
	publicPEM  string
}

// KeyStore represents an in memory store implementation of the
// KeyLookup interface for use with the auth package.
type KeyStore struct {
	mu    sync.RWMutex
	store map[string]key
}

// New constructs an empty KeyStore ready for use.
func New() *KeyStore {
	return &KeyStore{
		store: make(map[string]key),
	}
}

// LoadByFileSystem loads a set of RSA PEM files rooted inside of a directory.
// The name of each PEM file will be used as the key id. Public keys are
// expected to carry a ".pubkey" extension next to the private ".pem" file.
func (ks *KeyStore) LoadByFileSystem(fsys fs.FS) (int, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	fn := func(fileName string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if dirEntry.IsDir() {
			return nil
		}

		if path.Ext(fileName) != ".pem" {
			return nil
		}

		file, err := fsys.Open(fileName)
		if err != nil {
			return fmt.Errorf("opening key file: %w", err)
		}
		defer file.Close()

		// limit PEM file size to 1 megabyte.
		pem, err := io.ReadAll(io.LimitReader(file, 1024*1024))
		if err != nil {
			return fmt.Errorf("reading auth private key: %w", err)
		}

		kid := strings.TrimSuffix(dirEntry.Name(), ".pem")

		k := key{privatePEM: string(pem)}

		pubFile, err := fsys.Open(strings.TrimSuffix(fileName, ".pem") + ".pubkey")
		if err == nil {
			defer pubFile.Close()

			pub, err := io.ReadAll(io.LimitReader(pubFile, 1024*1024))
			if err != nil {
				return fmt.Errorf("reading auth public key: %w", err)
			}
			k.publicPEM = string(pub)
		}

		ks.store[kid] = k

		return nil
	}

	if err := fs.WalkDir(fsys, ".", fn); err != nil {
		return 0, fmt.Errorf("walking directory: %w", err)
	}

	return len(ks.store), nil
}

// PrivateKey searches the key store for a given kid and returns the
// private key.
func (ks *KeyStore) PrivateKey(kid string) (string, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	k, found := ks.store[kid]
	if !found {
		return "", fmt.Errorf("kid lookup failed: %s", kid)
	}

	return k.privatePEM, nil
}

// PublicKey searches the key store for a given kid and returns the
// public key.
func (ks *KeyStore) PublicKey(kid string) (string, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	k, found := ks.store[kid]
	if !found {
		return "", fmt.Errorf("kid lookup failed: %s", kid)
	}

	if k.publicPEM == "" {
		return "", fmt.Errorf("no public key for kid: %s", kid)
	}

	return k.publicPEM, nil
}
