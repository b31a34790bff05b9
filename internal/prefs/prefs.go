package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/passdesk/passdesk/internal/cards"
	"github.com/passdesk/passdesk/internal/clipguard"
)

// Bucket names
var (
	SettingsBucket = []byte("settings") // clipboard policy, sort order, endpoint
	SessionBucket  = []byte("session")  // active profile and workspace
)

// Settings keys
var (
	KeyClipboardPolicy = []byte("clipboard_policy")
	KeySortOrder       = []byte("sort_order")
	KeyEndpoint        = []byte("endpoint")
	KeyActiveProfile   = []byte("active_profile")
	KeyActiveWorkspace = []byte("active_workspace")
)

// Store provides BBolt-based storage for client preferences.
type Store struct {
	db *bolt.DB
}

// DefaultPath returns the preferences database location under the user
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "passdesk", "prefs.db"), nil
}

// Open opens or creates the preferences database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{SettingsBucket, SessionBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ClipboardPolicy returns the stored auto-clear policy, or the default
// when none has been saved yet.
func (s *Store) ClipboardPolicy() (clipguard.Policy, error) {
	policy := clipguard.DefaultPolicy()
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(SettingsBucket).Get(KeyClipboardPolicy)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &policy)
	})
	if err != nil {
		return clipguard.DefaultPolicy(), fmt.Errorf("failed to load clipboard policy: %w", err)
	}
	if policy.TimeoutSeconds <= 0 {
		policy.TimeoutSeconds = clipguard.DefaultTimeoutSeconds
	}
	return policy, nil
}

// SetClipboardPolicy stores the auto-clear policy.
func (s *Store) SetClipboardPolicy(policy clipguard.Policy) error {
	data, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to encode clipboard policy: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(SettingsBucket).Put(KeyClipboardPolicy, data)
	})
}

// SortOrder returns the stored card sort order, defaulting to title.
func (s *Store) SortOrder() (cards.SortOrder, error) {
	order := cards.SortByTitle
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(SettingsBucket).Get(KeySortOrder)
		if data != nil && cards.ValidSortOrder(string(data)) {
			order = cards.SortOrder(data)
		}
		return nil
	})
	return order, err
}

// SetSortOrder stores the card sort order.
func (s *Store) SetSortOrder(order cards.SortOrder) error {
	if !cards.ValidSortOrder(string(order)) {
		return fmt.Errorf("unknown sort order %q", order)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(SettingsBucket).Put(KeySortOrder, []byte(order))
	})
}

// Endpoint returns the stored backend endpoint, or empty when unset.
func (s *Store) Endpoint() (string, error) {
	return s.getString(SettingsBucket, KeyEndpoint)
}

// SetEndpoint stores the backend endpoint.
func (s *Store) SetEndpoint(endpoint string) error {
	return s.putString(SettingsBucket, KeyEndpoint, endpoint)
}

// ActiveProfile returns the last profile the user logged into.
func (s *Store) ActiveProfile() (string, error) {
	return s.getString(SessionBucket, KeyActiveProfile)
}

// SetActiveProfile records the profile in use.
func (s *Store) SetActiveProfile(id string) error {
	return s.putString(SessionBucket, KeyActiveProfile, id)
}

// ActiveWorkspace returns the workspace selected with `passdesk use`.
func (s *Store) ActiveWorkspace() (string, error) {
	return s.getString(SessionBucket, KeyActiveWorkspace)
}

// SetActiveWorkspace records the workspace in use.
func (s *Store) SetActiveWorkspace(id string) error {
	return s.putString(SessionBucket, KeyActiveWorkspace, id)
}

// ClearSession forgets the active profile and workspace, used on logout.
func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(SessionBucket)
		if err := bucket.Delete(KeyActiveProfile); err != nil {
			return err
		}
		return bucket.Delete(KeyActiveWorkspace)
	})
}

func (s *Store) getString(bucket, key []byte) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get(key)
		if data != nil {
			value = string(data)
		}
		return nil
	})
	return value, err
}

func (s *Store) putString(bucket, key []byte, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, []byte(value))
	})
}
