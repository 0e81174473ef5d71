package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the adapter uses. pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on a single relational table of JSONB
// documents:
//
//	CREATE TABLE documents (
//	    table_name TEXT NOT NULL,
//	    item_key   TEXT NOT NULL,
//	    doc        JSONB NOT NULL,
//	    PRIMARY KEY (table_name, item_key)
//	);
type PostgresStore struct {
	db      DB
	keyAttr string
}

// NewPostgresStore creates the adapter. keyAttr names the item attribute
// used as the partition key, "userId" for the users table.
func NewPostgresStore(db DB, keyAttr string) *PostgresStore {
	return &PostgresStore{db: db, keyAttr: keyAttr}
}

func (s *PostgresStore) itemKey(item Item) (string, error) {
	key, ok := item[s.keyAttr].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("item is missing partition key attribute %q", s.keyAttr)
	}
	return key, nil
}

func (s *PostgresStore) Scan(ctx context.Context, table string, filters Item) ([]Item, error) {
	query := `SELECT doc FROM documents WHERE table_name = $1`
	args := []any{table}
	if len(filters) > 0 {
		filterJSON, err := json.Marshal(filters)
		if err != nil {
			return nil, err
		}
		query += ` AND doc @> $2`
		args = append(args, filterJSON)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) GetItem(ctx context.Context, table, key string) (Item, error) {
	var raw []byte
	query := `SELECT doc FROM documents WHERE table_name = $1 AND item_key = $2`
	err := s.db.QueryRow(ctx, query, table, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PostgresStore) PutItem(ctx context.Context, table string, item Item) error {
	key, err := s.itemKey(item)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (table_name, item_key, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (table_name, item_key) DO UPDATE SET doc = EXCLUDED.doc
	`
	_, err = s.db.Exec(ctx, query, table, key, doc)
	return err
}

func (s *PostgresStore) PutItemIfAbsent(ctx context.Context, table string, item Item) error {
	key, err := s.itemKey(item)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (table_name, item_key, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (table_name, item_key) DO NOTHING
	`
	tag, err := s.db.Exec(ctx, query, table, key, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConditionFailed
	}
	return nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, table, key string, updates Item) error {
	if len(updates) == 0 {
		return fmt.Errorf("updates cannot be empty")
	}
	patch, err := json.Marshal(updates)
	if err != nil {
		return err
	}
	query := `
		UPDATE documents SET doc = doc || $3
		WHERE table_name = $1 AND item_key = $2
	`
	tag, err := s.db.Exec(ctx, query, table, key, patch)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, table, key string) error {
	query := `DELETE FROM documents WHERE table_name = $1 AND item_key = $2`
	_, err := s.db.Exec(ctx, query, table, key)
	return err
}
