package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
//
// Two kinds of secondary keys are maintained alongside the primary record:
//
//   - unique indexes ({prefix}idx:{name}:{value} -> id), enforced on
//     Create and Update, used for lookups like email -> user;
//   - scopes ({prefix}scope:{name}:{value}:{id} -> id), non-unique,
//     used to list all records sharing a value (typically the owner).
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
	scopes  []Scope[T]
}

// Index defines a unique secondary index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
}

// Scope defines a non-unique grouping key on an entity.
type Scope[T any] struct {
	name   string
	keyGen func(*T) string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
		scopes:  make([]Scope[T], 0),
	}
}

// WithIndex adds a unique secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// WithIndexTransform adds a unique secondary index with lookup transformation.
// The lookupTransform function is applied to search values before index lookup,
// enabling case-insensitive searches, normalization, etc.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

// WithScope adds a non-unique grouping key to the entity.
// ListScoped iterates all records whose keyGen returned the same value.
func (e *Entity[T]) WithScope(name string, keyGen func(*T) string) *Entity[T] {
	e.scopes = append(e.scopes, Scope[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

func (e *Entity[T]) indexKey(idx Index[T], value string) string {
	return e.prefix + "idx:" + idx.name + ":" + value
}

func (e *Entity[T]) scopeKey(sc Scope[T], value, id string) string {
	return e.prefix + "scope:" + sc.name + ":" + value + ":" + id
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if an entity with this ID already exists
// or a unique index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	// Marshal the entity
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Check if key already exists
		_, err := txn.Get([]byte(key))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		// Check for unique index conflicts
		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(entity) {
				idxKey := e.indexKey(idx, indexValue)
				_, err := txn.Get([]byte(idxKey))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexValue, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		// Set the primary key
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		// Set index keys
		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(entity) {
				if err := txn.Set([]byte(e.indexKey(idx, indexValue)), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		// Set scope keys
		for _, sc := range e.scopes {
			if err := txn.Set([]byte(e.scopeKey(sc, sc.keyGen(entity), id)), []byte(id)); err != nil {
				return fmt.Errorf("failed to set scope key: %w", err)
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by unique secondary index.
// If the index has a lookup transform, it will be applied to the value before lookup.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Find the index and apply transformation if available
	transformedValue := value
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			transformedValue = idx.lookupTransform(value)
			break
		}
	}

	indexKey := []byte(e.prefix + "idx:" + indexName + ":" + transformedValue)

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update updates an existing entity.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	// Marshal the entity
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Get the old entity to clean up old index and scope keys
		var oldEntity T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &oldEntity); err != nil {
				return fmt.Errorf("failed to unmarshal old entity: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Delete old index keys
		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(&oldEntity) {
				if err := txn.Delete([]byte(e.indexKey(idx, indexValue))); err != nil {
					return fmt.Errorf("failed to delete old index key: %w", err)
				}
			}
		}

		// Check for new index conflicts (excluding old keys)
		for _, idx := range e.indexes {
			oldKeys := make(map[string]bool)
			for _, k := range idx.keyGen(&oldEntity) {
				oldKeys[k] = true
			}

			for _, indexValue := range idx.keyGen(entity) {
				// Skip if this is an old key being reused
				if oldKeys[indexValue] {
					continue
				}

				idxKey := e.indexKey(idx, indexValue)
				_, err := txn.Get([]byte(idxKey))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexValue, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		// Move scope keys if the scope value changed
		for _, sc := range e.scopes {
			oldValue := sc.keyGen(&oldEntity)
			newValue := sc.keyGen(entity)
			if oldValue != newValue {
				if err := txn.Delete([]byte(e.scopeKey(sc, oldValue, id))); err != nil {
					return fmt.Errorf("failed to delete old scope key: %w", err)
				}
			}
			if err := txn.Set([]byte(e.scopeKey(sc, newValue, id)), []byte(id)); err != nil {
				return fmt.Errorf("failed to set scope key: %w", err)
			}
		}

		// Set the primary key
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		// Set new index keys
		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(entity) {
				if err := txn.Set([]byte(e.indexKey(idx, indexValue)), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Delete deletes an entity by ID.
// Returns ErrNotFound if the entity does not exist, so a repeated
// delete surfaces as 404 rather than silently succeeding.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.deleteInTxn(txn, id)
	})
}

// DeleteAll deletes a batch of entities in a single transaction.
// Every ID is verified before any delete is issued; a missing ID
// rejects the whole batch with ErrNotFound.
func (e *Entity[T]) DeleteAll(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		// Validate the whole batch before touching anything.
		for _, id := range ids {
			if _, err := txn.Get([]byte(e.prefix + id)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return ErrNotFound.WithMessage("record not found: " + id)
				}
				return fmt.Errorf("failed to check key: %w", err)
			}
		}

		for _, id := range ids {
			if err := e.deleteInTxn(txn, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteInTxn removes the primary record plus its index and scope keys.
func (e *Entity[T]) deleteInTxn(txn *badger.Txn, id string) error {
	key := e.prefix + id

	var entity T
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get key: %w", err)
	}

	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Delete index keys
	for _, idx := range e.indexes {
		for _, indexValue := range idx.keyGen(&entity) {
			if err := txn.Delete([]byte(e.indexKey(idx, indexValue))); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}

	// Delete scope keys
	for _, sc := range e.scopes {
		if err := txn.Delete([]byte(e.scopeKey(sc, sc.keyGen(&entity), id))); err != nil {
			return fmt.Errorf("failed to delete scope key: %w", err)
		}
	}

	// Delete the primary key
	if err := txn.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Errors are delivered through yield
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				// Check context cancellation
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index and scope keys
				key := string(it.Item().Key())
				if len(key) > len(e.prefix) {
					remainder := key[len(e.prefix):]
					if strings.HasPrefix(remainder, "idx:") || strings.HasPrefix(remainder, "scope:") {
						continue
					}
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}

// ListScoped returns an iterator over all entities within a scope value,
// e.g. every task belonging to one owner.
func (e *Entity[T]) ListScoped(ctx context.Context, scopeName, value string) iter.Seq2[*T, error] {
	scopePrefix := e.prefix + "scope:" + scopeName + ":" + value + ":"

	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Errors are delivered through yield
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(scopePrefix)

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(scopePrefix)); it.ValidForPrefix([]byte(scopePrefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				var id string
				err := it.Item().Value(func(val []byte) error {
					id = string(val)
					return nil
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				item, err := txn.Get([]byte(e.prefix + id))
				if err != nil {
					// Dangling scope key; skip rather than fail the listing.
					if errors.Is(err, badger.ErrKeyNotFound) {
						continue
					}
					yield(nil, err)
					return err
				}

				var entity T
				err = item.Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil
				}
			}

			return nil
		})
	}
}
