package keystore

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("keystore: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("keystore: entropy bits must be 128 or 256")

	// ErrIndexOutOfRange indicates a key index reaches the BIP32 hardened range.
	ErrIndexOutOfRange = errors.New("keystore: key index exceeds maximum (2^31-1)")

	// ErrDecryptionFailed indicates wrong password or corrupted key file.
	ErrDecryptionFailed = errors.New("keystore: key decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates key checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("keystore: key checksum mismatch")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("keystore: key derivation failed")

	// ErrKeyNotFound indicates no key file exists at the given path.
	ErrKeyNotFound = errors.New("keystore: key not found")

	// ErrNilKey indicates a nil private key was supplied.
	ErrNilKey = errors.New("keystore: nil private key")
)
