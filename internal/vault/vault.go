// Package vault provides optional password-based encryption for exported
// shard and share bundles at rest.
package vault

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/mrz1836/strata/internal/secure"
)

// Seal encrypts plaintext (typically a serialized shard or share bundle)
// with age using a password-derived scrypt recipient.
func Seal(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("vault: building recipient: %w", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("vault: opening encrypt stream: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("vault: writing plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("vault: closing encrypt stream: %w", err)
	}

	return buf.Bytes(), nil
}

// Open decrypts a bundle previously produced by Seal.
func Open(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("vault: building identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("vault: opening decrypt stream: %w", err)
	}

	return io.ReadAll(r)
}

// SealSecure encrypts the contents of a secure.Bytes container.
func SealSecure(sb *secure.Bytes, password string) ([]byte, error) {
	data := sb.Bytes()
	if data == nil {
		return nil, nil
	}
	return Seal(data, password)
}

// OpenSecure decrypts ciphertext directly into a locked secure.Bytes
// container, zeroing the transient plaintext buffer afterward.
func OpenSecure(ciphertext []byte, password string) (*secure.Bytes, error) {
	plaintext, err := Open(ciphertext, password)
	if err != nil {
		return nil, err
	}

	sb := secure.FromSlice(plaintext)
	secure.Zero(plaintext)

	return sb, nil
}
