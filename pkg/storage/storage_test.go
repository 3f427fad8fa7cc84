package storage

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "rcc_students")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "rcc_students", `[{"id":"s1"}]`))
	got, err := kv.Get(ctx, "rcc_students")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"s1"}]`, got)

	require.NoError(t, kv.Set(ctx, "rcc_students", `[]`))
	got, err = kv.Get(ctx, "rcc_students")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, kv.Delete(ctx, "rcc_students"))
	_, err = kv.Get(ctx, "rcc_students")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Delete(ctx, "rcc_students"))
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestFileKV(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	exerciseKV(t, kv)

	require.NoError(t, kv.Set(context.Background(), "rcc_user", `{"id":"t1"}`))
	raw, err := os.ReadFile(kv.Path("rcc_user"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"t1"}`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileKVRejectsPathKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, kv.Set(context.Background(), "../escape", "x"))
	_, err = kv.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestPostgresKV(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	kv := NewPostgresKV(sqlx.NewDb(db, "sqlmock"))
	fixed := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return fixed }
	ctx := context.Background()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, kv.EnsureSchema(ctx))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
		WithArgs("rcc_tests").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, err = kv.Get(ctx, "rcc_tests")
	require.ErrorIs(t, err, ErrKeyNotFound)

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("rcc_tests", "[]", fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, kv.Set(ctx, "rcc_tests", "[]"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
		WithArgs("rcc_tests").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[]"))
	got, err := kv.Get(ctx, "rcc_tests")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE key = $1")).
		WithArgs("rcc_tests").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, kv.Delete(ctx, "rcc_tests"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithObserverReportsEachOperation(t *testing.T) {
	var ops []string
	kv := WithObserver(NewMemoryKV(), func(op string, _ time.Duration) {
		ops = append(ops, op)
	})
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v"))
	_, _ = kv.Get(ctx, "k")
	require.NoError(t, kv.Delete(ctx, "k"))

	assert.Equal(t, []string{"set", "get", "delete"}, ops)
}

func TestRedisKVAgainstServer(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	kv := NewRedisKV(client, "rcc_test_"+time.Now().UTC().Format("150405.000000"))
	exerciseKV(t, kv)
}

func TestRedisKVNamespacesKeys(t *testing.T) {
	assert.Equal(t, "rcc_students", NewRedisKV(nil, "").key("rcc_students"))
	assert.Equal(t, "portal:rcc_students", NewRedisKV(nil, "portal").key("rcc_students"))
}

func TestRedisKVSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	kv := NewRedisKV(client, "portal")
	ctx := context.Background()

	_, err := kv.Get(ctx, "rcc_students")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "redis get rcc_students")

	err = kv.Set(ctx, "rcc_students", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set rcc_students")

	err = kv.Delete(ctx, "rcc_students")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis delete rcc_students")
}
