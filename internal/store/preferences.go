package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	"github.com/dgraph-io/badger/v4"
)

const preferencesPrefix = "prefs:"

// ErrPreferencesNotFound is returned when a user has never saved preferences.
var ErrPreferencesNotFound = ErrNotFound.WithMessage("preferences not found")

// GetPreferences retrieves a user's UI preferences.
// Returns ErrPreferencesNotFound if none have been saved.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := preferencesPrefix + userID
	var prefs domain.Preferences

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPreferencesNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &prefs)
		})
	})

	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences creates or updates a user's UI preferences.
func (s *Store) SavePreferences(ctx context.Context, prefs *domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := preferencesPrefix + prefs.UserID
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// DeletePreferences removes a user's saved preferences.
func (s *Store) DeletePreferences(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := preferencesPrefix + userID
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
