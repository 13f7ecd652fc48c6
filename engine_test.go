package gocas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas/internal/store"
)

// ============================================================
// Configuration
// ============================================================

func restoreDefaults(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Configure(DefaultConfig()))
	})
}

func TestParseConfig_OverDefaults(t *testing.T) {
	c, err := ParseConfig([]byte("simplify:\n  cache_size: 10\nintegrate:\n  max_depth: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, c.Simplify.CacheSize)
	assert.True(t, c.Simplify.CacheEnabled)
	assert.Equal(t, 3, c.Integrate.MaxDepth)
	assert.Equal(t, DefaultConfig().Poly.MaxEvalPoints, c.Poly.MaxEvalPoints)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("integrate:\n  max_depth: 0\n"))
	assert.Equal(t, InvalidArgument, KindOf(err))

	_, err = ParseConfig([]byte("simplify: [not, a, map"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gocas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  in_memory: true\n"), 0o600))
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, c.Store.InMemory)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigure_RejectsInvalid(t *testing.T) {
	restoreDefaults(t)
	c := DefaultConfig()
	c.Integrate.Samples = 0
	assert.Error(t, Configure(c))
	assert.Equal(t, DefaultConfig().Integrate.Samples, CurrentConfig().Integrate.Samples)
}

// ============================================================
// Simplification cache
// ============================================================

func TestCache_BoundedLRU(t *testing.T) {
	restoreDefaults(t)
	c := DefaultConfig()
	c.Simplify.CacheSize = 2
	require.NoError(t, Configure(c))

	x := S("x")
	for k := int64(1); k <= 5; k++ {
		Simplify(AddOf(x, PowOf(x, N(k+1))))
	}
	assert.LessOrEqual(t, CacheLen(), 2)
	assert.Positive(t, CacheLen())

	ClearCache()
	assert.Equal(t, 0, CacheLen())
}

func TestCache_Disabled(t *testing.T) {
	restoreDefaults(t)
	c := DefaultConfig()
	c.Simplify.CacheEnabled = false
	require.NoError(t, Configure(c))

	x := S("x")
	Simplify(MulOf(x, SinOf(x)))
	assert.Equal(t, 0, CacheLen())
}

func TestCache_HitReturnsSameResult(t *testing.T) {
	restoreDefaults(t)
	require.NoError(t, Configure(DefaultConfig()))
	x := S("x")
	e := AddOf(MulOf(N(2), x), CosOf(x))
	first := Simplify(e)
	second := Simplify(e)
	assert.True(t, first.Equal(second))
}

func TestCache_Evict(t *testing.T) {
	c := newSimplifyCache(1)
	x := S("x")
	a, b := SinOf(x), CosOf(x)
	c.put(a, a)
	c.put(b, b)
	_, ok := c.get(a)
	assert.False(t, ok)
	got, ok := c.get(b)
	require.True(t, ok)
	assert.True(t, got.Equal(b))
	assert.Equal(t, 1, c.len())
}

// ============================================================
// Persistent cache
// ============================================================

func openTestCache(t *testing.T) *PersistentCache {
	t.Helper()
	p, err := OpenPersistentCache(StoreConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPersistentCache_RoundTrip(t *testing.T) {
	p := openTestCache(t)
	ctx := context.Background()
	x := S("x")
	in := AddOf(x, x)
	out := MulOf(N(2), x)

	_, ok := p.Lookup(ctx, in)
	assert.False(t, ok)

	require.NoError(t, p.Save(ctx, in, out))
	got, ok := p.Lookup(ctx, in)
	require.True(t, ok)
	assert.True(t, got.Equal(out))

	n, err := p.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, p.Clear())
	n, err = p.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPersistentCache_CorruptIsMiss(t *testing.T) {
	p := openTestCache(t)
	ctx := context.Background()
	e := SinOf(S("x"))
	require.NoError(t, p.st.Put(ctx, store.Key(simplifyNamespace, e.Hash()), []byte("{not json")))
	_, ok := p.Lookup(ctx, e)
	assert.False(t, ok)
}

func TestPersistentCache_CollisionIsMiss(t *testing.T) {
	p := openTestCache(t)
	ctx := context.Background()
	x := S("x")
	stored, queried := SinOf(x), CosOf(x)
	require.NoError(t, p.Save(ctx, stored, stored))

	// move the record under the other tree's key
	raw, ok, err := p.st.Get(ctx, store.Key(simplifyNamespace, stored.Hash()))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, p.st.Put(ctx, store.Key(simplifyNamespace, queried.Hash()), raw))

	_, ok = p.Lookup(ctx, queried)
	assert.False(t, ok)
}

func TestPersistentCache_SimplifyWritesThrough(t *testing.T) {
	restoreDefaults(t)
	c := DefaultConfig()
	c.Simplify.CacheEnabled = false
	require.NoError(t, Configure(c))

	p := openTestCache(t)
	AttachPersistentCache(p)
	t.Cleanup(func() { AttachPersistentCache(nil) })

	x := S("y")
	e := MulOf(x, ExpOf(x))
	first := Simplify(e)
	n, err := p.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, Simplify(e).Equal(first))
}

// ============================================================
// Explanation
// ============================================================

func TestExplainer_RecordsSteps(t *testing.T) {
	var steps []Step
	SetExplainer(ExplainerFunc(func(s Step) { steps = append(steps, s) }))
	t.Cleanup(func() { SetExplainer(nil) })

	x := S("x")
	Diff(PowOf(x, N(3)), x)
	Integrate(CosOf(x), x)

	var ops []string
	for _, s := range steps {
		ops = append(ops, s.Op)
	}
	assert.Contains(t, ops, "derivative")
	assert.Contains(t, ops, "integrate")
	require.NotEmpty(t, steps)
	assert.Equal(t, "derivative", steps[0].Op)
	assert.Equal(t, "first_order", steps[0].Rule)
	assert.True(t, steps[0].Output.Equal(MulOf(N(3), PowOf(x, N(2)))), "got %s", steps[0].Output)
}

func TestExplainer_Off(t *testing.T) {
	SetExplainer(nil)
	assert.False(t, explaining())
}

// ============================================================
// Function registry
// ============================================================

func TestRegisterFunction_FrozenAfterLookup(t *testing.T) {
	// any lookup freezes the registry
	_ = SinOf(N(0))
	_, ok := lookupFunction("sin")
	require.True(t, ok)

	err := RegisterFunction(FunctionProperties{Name: "late", Arity: 1})
	assert.Equal(t, InvalidArgument, KindOf(err))

	err = RegisterFunction(FunctionProperties{})
	assert.Equal(t, InvalidArgument, KindOf(err))
}
