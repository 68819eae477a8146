package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for key encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4

	privateKeyLen = 32
)

// EncryptKey encrypts priv with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, key||checksum)
func EncryptKey(priv *ec.PrivateKey, password string) ([]byte, error) {
	if priv == nil {
		return nil, ErrNilKey
	}
	key := priv.Serialize()

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keystore: generate salt: %w", err)
	}
	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keystore: generate nonce: %w", err)
	}

	plaintext := make([]byte, 0, len(key)+ChecksumLen)
	plaintext = append(plaintext, key...)
	plaintext = append(plaintext, checksum(key)...)

	out := make([]byte, 0, SaltLen+NonceLen+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// DecryptKey reverses EncryptKey.
func DecryptKey(encrypted []byte, password string) (*ec.PrivateKey, error) {
	if len(encrypted) < SaltLen+NonceLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}
	salt := encrypted[:SaltLen]
	nonce := encrypted[SaltLen : SaltLen+NonceLen]

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, nonce, encrypted[SaltLen+NonceLen:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(plaintext) != privateKeyLen+ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	key := plaintext[:privateKeyLen]
	if subtle.ConstantTimeCompare(plaintext[privateKeyLen:], checksum(key)) != 1 {
		return nil, ErrChecksumMismatch
	}
	priv, _ := ec.PrivateKeyFromBytes(key)
	return priv, nil
}

// SaveKey encrypts priv and writes it to path with 0600 permissions,
// creating parent directories as needed.
func SaveKey(path string, priv *ec.PrivateKey, password string) error {
	data, err := EncryptKey(priv, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("keystore: create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("keystore: write key file: %w", err)
	}
	return nil
}

// LoadKey reads and decrypts the key file at path.
func LoadKey(path, password string) (*ec.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("keystore: read key file: %w", err)
	}
	return DecryptKey(data, password)
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	derived := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("keystore: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: GCM creation failed: %w", err)
	}
	return gcm, nil
}

func checksum(key []byte) []byte {
	return bsvhash.Sha256(key)[:ChecksumLen]
}
