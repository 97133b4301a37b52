package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// backupMagicHeader is prepended to encrypted backup files for
	// identification.
	backupMagicHeader = "OPDECKENC1"

	// Argon2id parameters (RFC 9106 recommendations).
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32 // 256 bits for AES-256

	saltLength = 32
)

// deriveKey derives an encryption key from a password using Argon2id.
func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// encryptData encrypts data using AES-256-GCM with password-based key
// derivation. Output layout: salt || nonce || ciphertext+tag.
func encryptData(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("encryption password required")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// decryptData decrypts data produced by encryptData.
func decryptData(encrypted []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("encryption password required")
	}

	// GCM auth tag is 16 bytes, nonce is 12 bytes.
	minSize := saltLength + 12 + 16
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("encrypted data too short")
	}

	salt := encrypted[:saltLength]
	encrypted = encrypted[saltLength:]

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encrypted) < nonceSize {
		return nil, fmt.Errorf("encrypted data too short for nonce")
	}
	nonce := encrypted[:nonceSize]
	ciphertext := encrypted[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong password or corrupted data): %w", err)
	}
	return plaintext, nil
}
