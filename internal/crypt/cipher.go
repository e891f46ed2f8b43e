// Package crypt encrypts upstream OAuth tokens at rest. Values are AES-256-GCM
// sealed with a random 96-bit nonce and stored as hex "nonce:tag:ciphertext".
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const gcmTagSize = 16

// TokenCipher seals and opens token strings with a process-global key.
type TokenCipher struct {
	aead cipher.AEAD
}

// DeriveKey turns an arbitrary secret into the 32-byte AES key.
func DeriveKey(secret string) [32]byte {
	return sha256.Sum256([]byte(secret))
}

// New builds a TokenCipher from a 32-byte key.
func New(key [32]byte) (*TokenCipher, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &TokenCipher{aead: aead}, nil
}

// Encrypt seals plaintext into "nonce:tag:ciphertext" (hex parts). Empty
// input stays empty so absent tokens round-trip as absent.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-gcmTagSize], sealed[len(sealed)-gcmTagSize:]
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt opens a stored value. Anything that does not parse and authenticate
// as nonce:tag:ciphertext is returned unchanged; tokens stored before
// encryption was introduced fall through as plaintext.
func (c *TokenCipher) Decrypt(stored string) string {
	if stored == "" {
		return ""
	}
	parts := strings.Split(stored, ":")
	if len(parts) != 3 {
		return stored
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return stored
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != gcmTagSize {
		return stored
	}
	ct, err := hex.DecodeString(parts[2])
	if err != nil {
		return stored
	}
	plaintext, err := c.aead.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return stored
	}
	return string(plaintext)
}
