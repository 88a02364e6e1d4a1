package database

import (
	"context"
	"database/sql"
	"fmt"
)

// AliasStore provides methods for persisted aliases.
type AliasStore struct {
	db *DB
}

// NewAliasStore creates a new AliasStore.
func NewAliasStore(db *DB) *AliasStore {
	return &AliasStore{db: db}
}

// UpsertAlias inserts an alias or replaces the kind and value of an existing one.
func (s *AliasStore) UpsertAlias(ctx context.Context, a *Alias) (int64, error) {
	if a.Kind == "" {
		a.Kind = KindLiteral
	}
	if a.Kind != KindLiteral && a.Kind != KindTemplate {
		return 0, fmt.Errorf("UpsertAlias: unknown kind %q", a.Kind)
	}
	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO aliases (name, kind, value) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, value = excluded.value, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("UpsertAlias prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, a.Name, a.Kind, a.Value); err != nil {
		return 0, fmt.Errorf("UpsertAlias exec: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM aliases WHERE name = ?`, a.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("UpsertAlias id: %w", err)
	}
	a.ID = id
	return id, nil
}

// GetAlias retrieves an alias by name. It returns nil, nil when none exists.
func (s *AliasStore) GetAlias(ctx context.Context, name string) (*Alias, error) {
	query := `SELECT id, name, kind, value, created_at, updated_at FROM aliases WHERE name = ?`
	a := &Alias{}
	err := s.db.QueryRowContext(ctx, query, name).Scan(&a.ID, &a.Name, &a.Kind, &a.Value, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetAlias scan: %w", err)
	}
	return a, nil
}

// ListAliases retrieves all aliases ordered by name.
func (s *AliasStore) ListAliases(ctx context.Context) ([]*Alias, error) {
	query := `SELECT id, name, kind, value, created_at, updated_at FROM aliases ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListAliases query: %w", err)
	}
	defer rows.Close()

	var out []*Alias
	for rows.Next() {
		a := &Alias{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.Value, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ListAliases scan: %w", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAliases rows error: %w", err)
	}
	return out, nil
}

// DeleteAlias removes an alias and reports whether a row was deleted.
func (s *AliasStore) DeleteAlias(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM aliases WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("DeleteAlias exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteAlias rows affected: %w", err)
	}
	return n > 0, nil
}

// GetSetting returns the value stored under key, or "" when unset.
func (s *AliasStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("GetSetting scan: %w", err)
	}
	return value, nil
}

// SetSetting stores value under key.
func (s *AliasStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	if err != nil {
		return fmt.Errorf("SetSetting exec: %w", err)
	}
	return nil
}
