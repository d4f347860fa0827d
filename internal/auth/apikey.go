// Package auth manages API keys and the bearer-token middleware that guards
// the comparison API.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/evcraddock/invest-compare/internal/db"
)

const (
	apiKeyBytes  = 32 // 256-bit keys
	apiKeyPrefix = "ic_"
)

// ErrKeyNotFound is returned when deleting an unknown key.
var ErrKeyNotFound = errors.New("key not found")

// APIKey is the stored representation of an API key (no raw key).
type APIKey struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"` // first 8 chars for identification
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// APIKeyStore manages API keys in the database.
type APIKeyStore struct {
	conn    *sql.DB
	dialect db.Dialect
}

// NewAPIKeyStore creates an API key store.
func NewAPIKeyStore(conn *sql.DB, dialect db.Dialect) *APIKeyStore {
	return &APIKeyStore{conn: conn, dialect: dialect}
}

// Create generates a new API key with the given name.
// Returns the raw key (shown once to user) and the stored record.
func (s *APIKeyStore) Create(ctx context.Context, name string) (string, *APIKey, error) {
	raw, err := generateAPIKey()
	if err != nil {
		return "", nil, fmt.Errorf("generating key: %w", err)
	}

	key := &APIKey{
		Name:      name,
		KeyPrefix: raw[:8],
		CreatedAt: time.Now().UTC(),
	}
	const insert = "INSERT INTO api_keys (name, key_prefix, key_hash, created_at) VALUES (?, ?, ?, ?)"
	args := []interface{}{key.Name, key.KeyPrefix, hashAPIKey(raw), key.CreatedAt}

	if s.dialect == db.Postgres {
		if err := s.conn.QueryRowContext(ctx, s.dialect.Rebind(insert)+" RETURNING id", args...).Scan(&key.ID); err != nil {
			return "", nil, fmt.Errorf("storing key: %w", err)
		}
		return raw, key, nil
	}

	result, err := s.conn.ExecContext(ctx, insert, args...)
	if err != nil {
		return "", nil, fmt.Errorf("storing key: %w", err)
	}
	if key.ID, err = result.LastInsertId(); err != nil {
		return "", nil, fmt.Errorf("getting key id: %w", err)
	}

	return raw, key, nil
}

// List returns all API keys (without the raw key), newest first.
func (s *APIKeyStore) List(ctx context.Context) (keys []APIKey, err error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, name, key_prefix, created_at, last_used_at FROM api_keys ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var k APIKey
		var lastUsed sql.NullTime
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyPrefix, &k.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		if lastUsed.Valid {
			t := lastUsed.Time
			k.LastUsedAt = &t
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// Delete removes an API key by ID.
func (s *APIKeyStore) Delete(ctx context.Context, id int64) error {
	result, err := s.conn.ExecContext(ctx, s.dialect.Rebind("DELETE FROM api_keys WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deleting key %d: %w", id, ErrKeyNotFound)
	}

	return nil
}

// Validate checks a raw API key against stored hashes.
// Returns true if valid, and updates last_used_at.
func (s *APIKeyStore) Validate(ctx context.Context, rawKey string) (bool, error) {
	result, err := s.conn.ExecContext(ctx,
		s.dialect.Rebind("UPDATE api_keys SET last_used_at = ? WHERE key_hash = ?"),
		time.Now().UTC(), hashAPIKey(rawKey),
	)
	if err != nil {
		return false, fmt.Errorf("validating key: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}

	return rows > 0, nil
}

func generateAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(b), nil
}

func hashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
