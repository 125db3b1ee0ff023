// Package fieldcrypt encrypts individual patient attributes at rest.
//
// Ciphertext is "enc:v1:" followed by base64(nonce || AES-256-GCM sealed
// JSON). The prefix lets readers tell ciphertext from legacy plaintext that
// predates encryption.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// Prefix marks values produced by Cipher.Encrypt.
const Prefix = "enc:v1:"

// MinKeyLength is the shortest shared secret accepted.
const MinKeyLength = 16

const (
	keySalt = "ayurdiet-field-encryption"
	keyInfo = "patient-fields"
)

var (
	// ErrEmptyKey is returned when no shared secret is configured.
	ErrEmptyKey = errors.New("encryption key is empty")
	// ErrKeyTooShort is returned for secrets shorter than MinKeyLength.
	ErrKeyTooShort = fmt.Errorf("encryption key must be at least %d bytes", MinKeyLength)
	// ErrNotCiphertext is returned when the input lacks the ciphertext prefix.
	ErrNotCiphertext = errors.New("value is not ciphertext")
	// ErrMalformedCiphertext is returned when the payload cannot be decoded.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrDecrypt is returned when authentication fails: wrong key or tampering.
	ErrDecrypt = errors.New("failed to decrypt value")
)

// Cipher encrypts JSON-serializable values with one shared secret.
// It holds no mutable state and is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives an AES-256 key from secret with HKDF-SHA256.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}
	if len(secret) < MinKeyLength {
		return nil, ErrKeyTooShort
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), []byte(keySalt), []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt serializes value to JSON and seals it under a fresh nonce.
func (c *Cipher) Encrypt(value any) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to serialize value: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens ciphertext and unmarshals the JSON payload into dst.
// It never writes to dst when authentication fails.
func (c *Cipher) Decrypt(ciphertext string, dst any) error {
	plaintext, err := c.open(ciphertext)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, dst); err != nil {
		return fmt.Errorf("%w: payload is not valid JSON: %v", ErrMalformedCiphertext, err)
	}
	return nil
}

func (c *Cipher) open(ciphertext string) ([]byte, error) {
	if !IsCiphertext(ciphertext) {
		return nil, ErrNotCiphertext
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, Prefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return nil, fmt.Errorf("%w: payload too short", ErrMalformedCiphertext)
	}

	plaintext, err := c.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// IsCiphertext reports whether s carries the ciphertext prefix.
func IsCiphertext(s string) bool {
	return strings.HasPrefix(s, Prefix)
}
