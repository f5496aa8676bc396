package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/TongyunK/orderFood-system/internal/database"
	"github.com/TongyunK/orderFood-system/internal/entity"
)

// Repository reads and writes string-keyed settings rows. Values are stored
// as JSON-encoded scalars. Methods accept an explicit bun.IDB so callers can
// run reads and writes inside their own transaction; passing nil falls back
// to the repository's standing connections.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// Get returns the decoded scalar for key, and whether the key exists.
func (r *Repository) Get(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	if db == nil {
		db = r.reader
	}
	setting := new(entity.Setting)
	err := db.NewSelect().Model(setting).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("settings get %q: %w", key, err)
	}
	return decodeScalar(setting.Value)
}

// GetForUpdate reads a key with a row lock so the enclosing transaction
// serializes against concurrent writers of the same key.
func (r *Repository) GetForUpdate(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	if db == nil {
		return "", false, errors.New("settings: GetForUpdate requires a transaction")
	}
	setting := new(entity.Setting)
	err := db.NewSelect().Model(setting).Where("key = ?", key).For("UPDATE").Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("settings lock %q: %w", key, err)
	}
	return decodeScalar(setting.Value)
}

// Set upserts a key with a JSON-encoded scalar value.
func (r *Repository) Set(ctx context.Context, db bun.IDB, key string, value any) error {
	if db == nil {
		db = r.writer
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings encode %q: %w", key, err)
	}
	setting := &entity.Setting{Key: key, Value: string(encoded)}
	_, err = db.NewInsert().Model(setting).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("settings set %q: %w", key, err)
	}
	return nil
}

// Ensure inserts a key with a JSON-encoded scalar value only when the key is
// absent. Unlike Set it never overwrites, so of two racing inserts the loser
// blocks on the conflict and then adopts the winner's committed value.
func (r *Repository) Ensure(ctx context.Context, db bun.IDB, key string, value any) error {
	if db == nil {
		db = r.writer
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings encode %q: %w", key, err)
	}
	setting := &entity.Setting{Key: key, Value: string(encoded)}
	_, err = db.NewInsert().Model(setting).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("settings ensure %q: %w", key, err)
	}
	return nil
}

// String reads a key outside any transaction, returning fallback when the
// key is absent or unreadable.
func (r *Repository) String(ctx context.Context, key, fallback string) string {
	value, ok, err := r.Get(ctx, nil, key)
	if err != nil || !ok {
		return fallback
	}
	return value
}

// decodeScalar turns a stored JSON scalar into its string form. Numbers keep
// their literal representation; anything non-scalar is returned verbatim.
func decodeScalar(raw string) (string, bool, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw, true, nil
	}
	switch v := decoded.(type) {
	case string:
		return v, true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case nil:
		return "", false, nil
	default:
		return raw, true, nil
	}
}
