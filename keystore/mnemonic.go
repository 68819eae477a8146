// Package keystore manages payer signing keys for the entangler CLI.
//
// Keys are derived from a BIP39 mnemonic along m/44'/236'/0'/0/{index} and
// stored on disk encrypted with Argon2id + AES-256-GCM.
package keystore

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128
	Mnemonic24Words = 256

	purposeBIP44  = 44
	coinType      = 236
	payerAccount  = 0
	externalChain = 0

	// MaxIndex is the largest non-hardened child index.
	MaxIndex = 1<<31 - 1

	hardened = 0x80000000
)

// GenerateMnemonic creates a new BIP39 mnemonic with the specified entropy bits.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("keystore: generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("keystore: generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// KeyFromMnemonic derives the payer key at m/44'/236'/0'/0/index.
func KeyFromMnemonic(mnemonic, passphrase string, index uint32) (*ec.PrivateKey, string, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, "", ErrInvalidMnemonic
	}
	if index > MaxIndex {
		return nil, "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, "", fmt.Errorf("keystore: derive seed: %w", err)
	}
	master, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	key := master
	for depth, child := range []uint32{
		purposeBIP44 + hardened,
		coinType + hardened,
		payerAccount + hardened,
		externalChain,
		index,
	} {
		key, err = key.Child(child)
		if err != nil {
			return nil, "", fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, depth+1, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, "", fmt.Errorf("%w: extract private key: %w", ErrDerivationFailed, err)
	}
	return priv, fmt.Sprintf("m/44'/236'/0'/0/%d", index), nil
}
