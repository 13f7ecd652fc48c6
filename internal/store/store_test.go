package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	k := Key("simplify", 0xdeadbeef)

	_, ok, err := s.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, k, []byte("x + 1")))
	v, ok, err := s.Get(ctx, k)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x + 1", string(v))

	require.NoError(t, s.Delete(ctx, k))
	_, ok, err = s.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountAndDropNamespace(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	for i := uint64(0); i < 5; i++ {
		require.NoError(t, s.Put(ctx, Key("a", i), []byte{byte(i)}))
	}
	require.NoError(t, s.Put(ctx, Key("b", 1), []byte{1}))

	n, err := s.Count(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, s.DropNamespace("a"))
	n, err = s.Count(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Count(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCancelledContext(t *testing.T) {
	s := openTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := s.Get(ctx, Key("a", 1))
	assert.Error(t, err)
}

func TestKeyLayout(t *testing.T) {
	k := Key("ns", 1)
	assert.Equal(t, []byte{'n', 's', '/', 0, 0, 0, 0, 0, 0, 0, 1}, k)
}
