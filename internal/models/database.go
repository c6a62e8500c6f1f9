package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// sessionKey is the fixed key of the single persisted session record
const sessionKey = "current"

// SessionRecord is the durable form of the client session. Token and
// user live in one record so a save or clear is always atomic.
type SessionRecord struct {
	Key     string `boltholdKey:"Key"`
	Token   string
	User    *User
	SavedAt time.Time
}

// Database wraps the bolthold store used for durable client state
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens the local database file
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database
func (db *Database) Close() error {
	return db.store.Close()
}

// SaveSession writes the token/user pair in a single transaction
func (db *Database) SaveSession(token string, user *User) error {
	record := &SessionRecord{
		Key:     sessionKey,
		Token:   token,
		User:    user,
		SavedAt: time.Now(),
	}
	return db.store.Upsert(sessionKey, record)
}

// LoadSession returns the persisted token and user. A missing record is
// not an error: it returns empty values, meaning no session was saved.
func (db *Database) LoadSession() (string, *User, error) {
	var record SessionRecord
	err := db.store.Get(sessionKey, &record)
	if err != nil {
		if err == bolthold.ErrNotFound {
			return "", nil, nil
		}
		return "", nil, err
	}
	return record.Token, record.User, nil
}

// ClearSession removes the persisted session, if any
func (db *Database) ClearSession() error {
	err := db.store.Delete(sessionKey, &SessionRecord{})
	if err != nil && err != bolthold.ErrNotFound {
		return err
	}
	return nil
}
