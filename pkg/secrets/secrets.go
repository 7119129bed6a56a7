package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length in bytes of application, scope and derived keys.
const KeySize = 32

// hkdfInfo binds derived keys to this package so the same inputs used
// elsewhere never produce the same key.
var hkdfInfo = []byte("stove/secrets/v1")

// GenerateKey returns KeySize cryptographically random bytes.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return key, nil
}

// KeyFromParts hashes arbitrary identifying strings into a KeySize key.
// Parts are length-prefixed so ("ab","c") and ("a","bc") differ.
func KeyFromParts(parts ...string) []byte {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s;", len(p), p)
	}
	return h.Sum(nil)
}

// EncryptString seals plaintext and returns it base64 encoded.
func EncryptString(appKey, scopeKey []byte, plaintext string) (string, error) {
	sealed, err := EncryptBytes(appKey, scopeKey, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString.
func DecryptString(appKey, scopeKey []byte, ciphertext string) (string, error) {
	ciphertext = strings.TrimSpace(ciphertext)
	if ciphertext == "" {
		return "", ErrInvalidCiphertext
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	plaintext, err := DecryptBytes(appKey, scopeKey, sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptBytes seals data with AES-256-GCM under a key derived from appKey
// and scopeKey. The output is nonce || ciphertext || tag.
func EncryptBytes(appKey, scopeKey, data []byte) ([]byte, error) {
	gcm, err := newGCM(appKey, scopeKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

// DecryptBytes opens data produced by EncryptBytes with the same key pair.
func DecryptBytes(appKey, scopeKey, data []byte) ([]byte, error) {
	gcm, err := newGCM(appKey, scopeKey)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(appKey, scopeKey []byte) (cipher.AEAD, error) {
	if subtle.ConstantTimeEq(int32(len(appKey)), KeySize) != 1 {
		return nil, ErrInvalidAppKey
	}
	if subtle.ConstantTimeEq(int32(len(scopeKey)), KeySize) != 1 {
		return nil, ErrInvalidScopeKey
	}

	key, err := deriveKey(appKey, scopeKey)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	return gcm, nil
}

func deriveKey(appKey, scopeKey []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, appKey, scopeKey, hkdfInfo)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	return key, nil
}
