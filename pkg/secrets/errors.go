package secrets

import "errors"

var (
	ErrInvalidAppKey     = errors.New("secrets: app key must be 32 bytes")
	ErrInvalidScopeKey   = errors.New("secrets: scope key must be 32 bytes")
	ErrInvalidCiphertext = errors.New("secrets: invalid ciphertext")
	ErrDecryptionFailed  = errors.New("secrets: decryption failed")
	ErrEncryptionFailed  = errors.New("secrets: encryption failed")
	ErrKeyDerivation     = errors.New("secrets: key derivation failed")
	ErrKeyGeneration     = errors.New("secrets: key generation failed")
)
