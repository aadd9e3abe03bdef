package kv

import (
	"context"
	"errors"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "a", []byte(`["x"]`)))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, string(got))

	// last write wins
	require.NoError(t, s.Put(ctx, "a", []byte(`["x","y"]`)))
	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, string(got))

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is not an error
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestBadgerStoreInMemory(t *testing.T) {
	b, err := OpenBadger("", logger.Nop())
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	exerciseStore(t, b)
}

func TestBadgerStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b, err := OpenBadger(dir, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "k", []byte("v")))
	require.NoError(t, b.Close())

	reopened, err := OpenBadger(dir, logger.Nop())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SITEBOARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SITEBOARD_TEST_REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer func() { _ = client.Close() }()

	exerciseStore(t, Namespace(NewRedis(client), "siteboard-test"))
}

func TestNamespaceIsolatesKeys(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	subs := Namespace(mem, "siteboard:submissions")
	sites := Namespace(mem, "siteboard:sites")

	require.NoError(t, subs.Put(ctx, "pending_submissions", []byte("[]")))

	_, err := sites.Get(ctx, "pending_submissions")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"siteboard:submissions:pending_submissions"}, mem.Keys())
	assert.Equal(t, "siteboard:sites:", sites.Prefix())
}

func TestMemoryHookAbortsOperation(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	boom := errors.New("store unavailable")

	mem.SetHook(func(op Op, key string) error {
		if op == OpPut && key == "b" {
			return boom
		}
		return nil
	})

	require.NoError(t, mem.Put(ctx, "a", []byte("1")))
	assert.ErrorIs(t, mem.Put(ctx, "b", []byte("2")), boom)
	assert.Equal(t, 1, mem.Len())

	mem.SetHook(nil)
	require.NoError(t, mem.Put(ctx, "b", []byte("2")))
	assert.Equal(t, 2, mem.Len())
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	in := []byte("abc")
	require.NoError(t, mem.Put(ctx, "k", in))
	in[0] = 'z'

	got, err := mem.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
