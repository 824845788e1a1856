/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package secrets encrypts and decrypts credentials stored alongside OBM settings.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	keyLength   = 32
	nonceLength = 12

	passphraseInfo = "obmpoller/obm-credentials"
)

var (
	// ErrInvalidKeyLength indicates the provided key is not the required size.
	ErrInvalidKeyLength = errors.New("secrets: encryption key must be 32 bytes")
	// ErrCiphertextTooShort indicates the ciphertext payload is shorter than the nonce.
	ErrCiphertextTooShort = errors.New("secrets: ciphertext too short")
	// ErrNoKeySource indicates none of key, key file or passphrase was configured.
	ErrNoKeySource = errors.New("secrets: no encryption key configured")
	// ErrEmptyPassphrase indicates a passphrase-derived key was requested without a passphrase.
	ErrEmptyPassphrase = errors.New("secrets: passphrase must not be empty")
)

// KeySource selects where the AES key comes from. Exactly one field is used,
// in the order Key, KeyFile, Passphrase.
type KeySource struct {
	Key        string `json:"key,omitempty" yaml:"key,omitempty" sensitive:"true"`
	KeyFile    string `json:"key_file,omitempty" yaml:"key_file,omitempty"`
	Passphrase string `json:"passphrase,omitempty" yaml:"passphrase,omitempty" sensitive:"true"`
	Salt       string `json:"salt,omitempty" yaml:"salt,omitempty"`
}

// Cipher wraps AES-GCM helpers for encrypting sensitive blobs before storage.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from the provided key bytes.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != keyLength {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: create cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceLength)
	if err != nil {
		return nil, fmt.Errorf("secrets: init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// NewCipherFromBase64 decodes a standard base64 key.
func NewCipherFromBase64(encoded string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("secrets: decode key: %w", err)
	}

	return NewCipher(key)
}

// NewCipherFromPassphrase derives the key with HKDF-SHA256.
func NewCipherFromPassphrase(passphrase, salt string) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), []byte(salt), []byte(passphraseInfo)), key); err != nil {
		return nil, fmt.Errorf("secrets: derive key: %w", err)
	}

	return NewCipher(key)
}

// Load builds a Cipher from the configured source.
func (s KeySource) Load() (*Cipher, error) {
	switch {
	case s.Key != "":
		return NewCipherFromBase64(s.Key)
	case s.KeyFile != "":
		data, err := os.ReadFile(s.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("secrets: read key file: %w", err)
		}

		return NewCipherFromBase64(string(data))
	case s.Passphrase != "":
		return NewCipherFromPassphrase(s.Passphrase, s.Salt)
	default:
		return nil, ErrNoKeySource
	}
}

// Configured reports whether any key source is set.
func (s KeySource) Configured() bool {
	return s.Key != "" || s.KeyFile != "" || s.Passphrase != ""
}

// Encrypt serialises plaintext using AES-256-GCM and returns a base64 payload.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: generate nonce: %w", err)
	}

	return base64.StdEncoding.EncodeToString(c.aead.Seal(nonce, nonce, plaintext, nil)), nil
}

// Decrypt reverses Encrypt and returns the original plaintext bytes.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("secrets: decode ciphertext: %w", err)
	}

	if len(payload) < nonceLength {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := c.aead.Open(nil, payload[:nonceLength], payload[nonceLength:], nil)
	if err != nil {
		return nil, fmt.Errorf("secrets: decrypt payload: %w", err)
	}

	return plaintext, nil
}

// DecryptString is Decrypt for string credentials.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	plaintext, err := c.Decrypt(encoded)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// GenerateKey returns a fresh random key encoded for KeySource.Key.
func GenerateKey() (string, error) {
	key := make([]byte, keyLength)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("secrets: generate key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(key), nil
}
