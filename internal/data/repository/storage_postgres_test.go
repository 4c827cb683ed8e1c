package repository_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"seatmap-client/internal/data/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDB answers the storage queries from an in-memory table.
type fakeDB struct {
	mu      sync.Mutex
	rows    map[[2]string]string
	execErr error
	readErr error
	execs   []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: make(map[[2]string]string)}
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.value
	return nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.readErr != nil {
		return fakeRow{err: db.readErr}
	}
	value, ok := db.rows[[2]string{args[0].(string), args[1].(string)}]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: value}
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.execs = append(db.execs, strings.Fields(sql)[0])
	if db.execErr != nil {
		return pgconn.CommandTag{}, db.execErr
	}

	switch {
	case strings.Contains(sql, "INSERT INTO client_storage"):
		db.rows[[2]string{args[0].(string), args[1].(string)}] = args[2].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "DELETE FROM client_storage"):
		delete(db.rows, [2]string{args[0].(string), args[1].(string)})
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (db *fakeDB) Ping(context.Context) error { return nil }

func (db *fakeDB) Close() {}

func TestPostgresStorage_RoundTrip(t *testing.T) {
	db := newFakeDB()
	storage := repository.NewPostgresStorageRepository(db, "seatmap-client", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repository.EnsureStorageSchema(ctx, db))

	_, ok, err := storage.Get(ctx, "guestId")
	require.NoError(t, err, "no rows is not an error")
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, "guestId", "guest-1"))
	require.NoError(t, storage.Set(ctx, "guestId", "guest-2"))

	value, ok, err := storage.Get(ctx, "guestId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "guest-2", value)

	other := repository.NewPostgresStorageRepository(db, "other-app", zap.NewNop())
	_, ok, err = other.Get(ctx, "guestId")
	require.NoError(t, err)
	assert.False(t, ok, "keys are scoped by origin")

	require.NoError(t, storage.Delete(ctx, "guestId"))
	_, ok, err = storage.Get(ctx, "guestId")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"CREATE", "INSERT", "INSERT", "DELETE"}, db.execs)
}

func TestPostgresStorage_Errors(t *testing.T) {
	db := newFakeDB()
	db.readErr = errors.New("conn closed")
	db.execErr = errors.New("conn closed")
	storage := repository.NewPostgresStorageRepository(db, "seatmap-client", zap.NewNop())
	ctx := context.Background()

	_, _, err := storage.Get(ctx, "guestId")
	assert.ErrorIs(t, err, db.readErr)
	assert.ErrorIs(t, storage.Set(ctx, "guestId", "guest-1"), db.execErr)
	assert.ErrorIs(t, storage.Delete(ctx, "guestId"), db.execErr)
	assert.Error(t, repository.EnsureStorageSchema(ctx, db))
}
