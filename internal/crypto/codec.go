// Package crypto encrypts transaction amounts at rest with AES-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// ErrCorruptData marks a blob that was not produced by Encrypt with the
// current key: wrong key, truncation, or tampering.
var ErrCorruptData = errors.New("corrupt encrypted data")

const keySize = 32

// Codec is a reversible transform between a decimal amount and an opaque
// encrypted blob. The key is loaded once at construction and reused for the
// process lifetime; there is no rotation.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec loads the symmetric key from keyPath, generating and persisting
// a fresh one on first use.
func NewCodec(keyPath string) (*Codec, error) {
	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}
	return NewCodecWithKey(key)
}

// NewCodecWithKey builds a codec around an in-memory key. Tests inject keys
// here to avoid touching the filesystem.
func NewCodecWithKey(key []byte) (*Codec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt seals the amount into an opaque blob, nonce prefixed.
func (c *Codec) Encrypt(amount decimal.Decimal) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, []byte(amount.String()), nil), nil
}

// Decrypt opens a blob produced by Encrypt. Any failure, including a
// plaintext that does not parse as a decimal, is reported as ErrCorruptData.
func (c *Codec) Decrypt(blob []byte) (decimal.Decimal, error) {
	if len(blob) < c.aead.NonceSize() {
		return decimal.Zero, ErrCorruptData
	}
	nonce, ciphertext := blob[:c.aead.NonceSize()], blob[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return decimal.Zero, ErrCorruptData
	}
	amount, err := decimal.NewFromString(string(plain))
	if err != nil {
		return decimal.Zero, ErrCorruptData
	}
	return amount, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(key) != keySize {
			return nil, fmt.Errorf("key file %q: expected %d bytes, got %d", path, keySize, len(key))
		}
		return key, nil
	case os.IsNotExist(err):
		key = make([]byte, keySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create key dir: %w", err)
			}
		}
		if err := os.WriteFile(path, key, 0o600); err != nil {
			return nil, fmt.Errorf("persist key: %w", err)
		}
		log.Printf("[info] generated new encryption key at %s", path)
		return key, nil
	default:
		return nil, fmt.Errorf("read key file: %w", err)
	}
}
