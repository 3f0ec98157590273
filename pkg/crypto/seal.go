// Package crypto seals token material before it is written to durable storage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// Magic bytes identifying a sealed blob.
	MagicBytes = "DWSL"

	// FormatVersion of the sealed format.
	FormatVersion = 1

	// Argon2id parameters (OWASP recommended)
	Argon2Time    = 3
	Argon2Memory  = 64 * 1024 // 64 MB
	Argon2Threads = 4
	Argon2KeyLen  = 32 // AES-256

	SaltSize  = 32
	NonceSize = 12 // GCM standard nonce size

	// Header: magic(4) + version(1) + salt(32) + nonce(12)
	HeaderSize = 4 + 1 + SaltSize + NonceSize
)

var (
	ErrInvalidMagic   = errors.New("invalid format: not a sealed blob")
	ErrInvalidVersion = errors.New("unsupported sealed format version")
	ErrOpenFailed     = errors.New("unseal failed: wrong passphrase or corrupted data")
)

// DeriveKey derives an AES-256 key from a passphrase using Argon2id.
func DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(passphrase),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Threads,
		Argon2KeyLen,
	)
}

// GenerateSalt creates a cryptographically secure random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts plaintext with AES-256-GCM under a key derived from passphrase.
// Output layout: magic + version + salt + nonce + ciphertext.
func Seal(plaintext []byte, passphrase string) ([]byte, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}

	key := DeriveKey(passphrase, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, HeaderSize+len(plaintext)+gcm.Overhead())
	out = append(out, MagicBytes...)
	out = append(out, FormatVersion)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Open decrypts a blob produced by Seal.
func Open(sealed []byte, passphrase string) ([]byte, error) {
	if len(sealed) < HeaderSize {
		return nil, ErrInvalidMagic
	}
	if string(sealed[:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if sealed[4] != FormatVersion {
		return nil, ErrInvalidVersion
	}

	salt := sealed[5 : 5+SaltSize]
	nonce := sealed[5+SaltSize : HeaderSize]
	ciphertext := sealed[HeaderSize:]

	key := DeriveKey(passphrase, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
