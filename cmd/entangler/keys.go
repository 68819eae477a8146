package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/keystore"
)

var errPasswordRequired = errors.New("key password required (--password or $ENTANGLER_PASSWORD)")

// keyPath returns the key file of name under the data directory.
func (c *cli) keyPath(name string) string {
	return filepath.Join(c.cfg.DataDir, "keys", name+".key")
}

// loadKey decrypts the named key. Decryption doubles as signer authentication.
func (c *cli) loadKey(name string) (*ec.PrivateKey, address.Address, error) {
	if c.password == "" {
		return nil, address.Address{}, errPasswordRequired
	}
	priv, err := keystore.LoadKey(c.keyPath(name), c.password)
	if err != nil {
		return nil, address.Address{}, fmt.Errorf("load key %q: %w", name, err)
	}
	addr, err := address.FromPublicKey(priv.PubKey())
	if err != nil {
		return nil, address.Address{}, err
	}
	return priv, addr, nil
}

// resolveAddress accepts a hex address or the name of a stored key.
func (c *cli) resolveAddress(s string) (address.Address, error) {
	if a, err := address.ParseAddress(s); err == nil {
		return a, nil
	}
	_, a, err := c.loadKey(s)
	return a, err
}

func newKeygenCmd(c *cli) *cobra.Command {
	var (
		name     string
		mnemonic string
		index    uint32
		words    int
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create an encrypted payer key",
		Long: `keygen derives a payer key at m/44'/236'/0'/0/<index> from a BIP39
mnemonic and stores it encrypted under <datadir>/keys/<name>.key.

A new mnemonic is generated and printed once unless --mnemonic is given.

Example:
  entangler keygen --name payer --password secret
  entangler keygen --name restored --mnemonic "abandon ... about" --index 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.password == "" {
				return errPasswordRequired
			}
			keyFile := c.keyPath(name)
			if _, err := os.Stat(keyFile); err == nil {
				return fmt.Errorf("key %q already exists at %s", name, keyFile)
			}

			generated := mnemonic == ""
			if generated {
				bits := keystore.Mnemonic12Words
				if words == 24 {
					bits = keystore.Mnemonic24Words
				} else if words != 12 {
					return fmt.Errorf("%w: --words must be 12 or 24", keystore.ErrInvalidEntropy)
				}
				m, err := keystore.GenerateMnemonic(bits)
				if err != nil {
					return err
				}
				mnemonic = m
			}

			priv, path, err := keystore.KeyFromMnemonic(mnemonic, "", index)
			if err != nil {
				return err
			}
			if err := keystore.SaveKey(keyFile, priv, c.password); err != nil {
				return err
			}
			addr, err := address.FromPublicKey(priv.PubKey())
			if err != nil {
				return err
			}
			c.logger.Info("key created", "name", name, "address", addr.String(), "path", path)

			view := keyView{Name: name, Address: addr.String(), Path: path, KeyFile: keyFile}
			if generated {
				view.Mnemonic = mnemonic
			}
			return c.print(cmd, view)
		},
	}
	cmd.Flags().StringVar(&name, "name", "payer", "key name")
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "restore from this BIP39 mnemonic")
	cmd.Flags().Uint32Var(&index, "index", 0, "address index")
	cmd.Flags().IntVar(&words, "words", 12, "mnemonic length for new keys (12 or 24)")
	return cmd
}
