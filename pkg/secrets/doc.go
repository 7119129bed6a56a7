// Package secrets provides AES-256-GCM encryption with compound key derivation.
//
// Two 32-byte inputs are combined with HKDF-SHA256 into the encryption key:
//   - Application key: a secret fixed for the whole application
//   - Scope key: material identifying who may decrypt, for example the OS
//     user and machine the data was written on
//
// Ciphertext sealed under one scope cannot be opened under another, so a
// token file copied to a different account or machine is unreadable.
//
// # Usage
//
//	appKey := secrets.KeyFromParts("my-app", appSecret)
//	scopeKey := secrets.KeyFromParts(username, hostname, machineID)
//
//	sealed, err := secrets.EncryptString(appKey, scopeKey, token)
//	if err != nil {
//		return err
//	}
//
//	token, err = secrets.DecryptString(appKey, scopeKey, sealed)
//	if errors.Is(err, secrets.ErrDecryptionFailed) {
//		// wrong scope or tampered data
//	}
//
// Random keys for tests or fresh installs come from GenerateKey.
//
// # Error Handling
//
//   - ErrInvalidAppKey, ErrInvalidScopeKey: key is not 32 bytes
//   - ErrInvalidCiphertext: not base64 or too short
//   - ErrDecryptionFailed: authentication failed (wrong keys or tampering)
//
// Derived keys are cleared from memory after each operation.
package secrets
