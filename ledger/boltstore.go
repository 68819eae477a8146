package ledger

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/entangler-go/address"
)

var bucketAccounts = []byte("accounts")

// BoltStore persists ledger accounts in a bbolt database.
// Each Commit runs in a single bbolt write transaction.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketAccounts, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// GetAccount retrieves an account by address.
func (s *BoltStore) GetAccount(addr address.Address) (*Account, error) {
	var acct Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get(addr[:])
		if data == nil {
			return ErrAccountNotFound
		}
		if err := decodeGob(data, &acct); err != nil {
			return fmt.Errorf("boltstore: decode account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// HasAccount reports whether an account exists at addr.
func (s *BoltStore) HasAccount(addr address.Address) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketAccounts).Get(addr[:]) != nil
		return nil
	})
	return found, err
}

// ListAccounts returns all accounts owned by owner, in key order.
func (s *BoltStore) ListAccounts(owner address.Address) ([]*Account, error) {
	var accts []*Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var acct Account
			if err := decodeGob(v, &acct); err != nil {
				return fmt.Errorf("boltstore: decode account in list: %w", err)
			}
			if acct.Owner == owner {
				accts = append(accts, &acct)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: list accounts: %w", err)
	}
	return accts, nil
}

// Commit validates and applies a change set inside one write transaction.
// Any error rolls the transaction back.
func (s *BoltStore) Commit(cs *ChangeSet) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return cs.apply(boltView{b: tx.Bucket(bucketAccounts)})
	})
}

type boltView struct {
	b *bbolt.Bucket
}

func (v boltView) get(addr address.Address) (*Account, error) {
	data := v.b.Get(addr[:])
	if data == nil {
		return nil, nil
	}
	var acct Account
	if err := decodeGob(data, &acct); err != nil {
		return nil, fmt.Errorf("boltstore: decode account: %w", err)
	}
	return &acct, nil
}

func (v boltView) put(acct *Account) error {
	data, err := encodeGob(acct)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}
	if err := v.b.Put(acct.Address[:], data); err != nil {
		return fmt.Errorf("boltstore: put account: %w", err)
	}
	return nil
}
