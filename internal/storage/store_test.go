package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity/internal/database"
	"fixmycity/internal/model"
	fmredis "fixmycity/internal/redis"
	"fixmycity/internal/storage"
)

const userJSON = `{"id":"u1","firstName":"Ada","email":"ada@example.com"}`

// exerciseStore runs the behaviour every SessionStore must share.
func exerciseStore(t *testing.T, s storage.SessionStore) {
	t.Helper()
	ctx := context.Background()

	token, user, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)

	require.NoError(t, s.Save(ctx, "tok-1", []byte(userJSON)))
	token, user, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.JSONEq(t, userJSON, string(user))

	// Overwrite replaces both keys.
	require.NoError(t, s.Save(ctx, "tok-2", []byte(`{"id":"u2"}`)))
	token, user, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.JSONEq(t, `{"id":"u2"}`, string(user))

	require.NoError(t, s.Clear(ctx))
	token, user, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, user)

	// Clearing an empty store is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, storage.NewMemory())
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	m := storage.NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := strconv.Itoa(i)
			assert.NoError(t, m.Save(ctx, "tok-"+id, []byte(`{"id":"`+id+`"}`)))
		}()
		go func() {
			defer wg.Done()
			_, _, err := m.Load(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	token, user, err := m.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user)
}

func TestMemoryStore_SetPlantsSingleKey(t *testing.T) {
	m := storage.NewMemory()
	m.Set(storage.KeyUser, "{not json")

	token, user, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, "{not json", string(user))

	v, ok := m.Get(storage.KeyUser)
	assert.True(t, ok)
	assert.Equal(t, "{not json", v)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := storage.NewFileStore(path)
	assert.Equal(t, path, s.Path())

	exerciseStore(t, s)
}

func TestFileStore_WritesPrivateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := storage.NewFileStore(path)

	require.NoError(t, s.Save(context.Background(), "tok", []byte(userJSON)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, _, err := storage.NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, model.ErrCorruptSession)
}

// =============================================================================
// Backends that need a running server
// =============================================================================

func setupTestRedis(t *testing.T) *fmredis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/1"
	}

	client, err := fmredis.NewClient(redisURL)
	require.NoError(t, err)

	if err := client.Ping(context.Background()); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisStore(t *testing.T) {
	client := setupTestRedis(t)
	s := storage.NewRedisStore(client.Client, "test-"+t.Name())
	t.Cleanup(func() { s.Clear(context.Background()) })

	exerciseStore(t, s)
}

func TestRedisStore_ProfilesAreIsolated(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	a := storage.NewRedisStore(client.Client, "test-a")
	b := storage.NewRedisStore(client.Client, "test-b")
	t.Cleanup(func() {
		a.Clear(ctx)
		b.Clear(ctx)
	})

	require.NoError(t, a.Save(ctx, "tok-a", []byte(userJSON)))

	token, _, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping test")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("Postgres not available, skipping test: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := storage.NewPostgresStore(db, "test-"+t.Name())
	require.NoError(t, s.EnsureSchema(ctx))
	t.Cleanup(func() { s.Clear(ctx) })

	exerciseStore(t, s)
}
