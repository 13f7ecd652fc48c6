package gocas

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/njchilds90/gocas/internal/store"
)

// ============================================================
// Persistent simplification cache
// ============================================================

const simplifyNamespace = "simplify"

// PersistentCache keeps simplification results across processes. The
// stored record repeats the input, and a record whose input does not match
// the query (a hash collision or a corrupt value) is treated as a miss.
type PersistentCache struct {
	st *store.Store
}

type persistRecord struct {
	Input  json.RawMessage `json:"input"`
	Output json.RawMessage `json:"output"`
}

// OpenPersistentCache opens the store described by cfg.
func OpenPersistentCache(cfg StoreConfig) (*PersistentCache, error) {
	sc := store.Config{Path: cfg.Dir, InMemory: cfg.InMemory}
	if l := pkgLogger.Load(); l != nil {
		sc.Logger = l.Slog()
	}
	st, err := store.Open(sc)
	if err != nil {
		return nil, newError(InvalidArgument, "open_store", err.Error())
	}
	logger().Info("persistent cache opened", "dir", cfg.Dir, "in_memory", cfg.InMemory)
	return &PersistentCache{st: st}, nil
}

func (p *PersistentCache) Close() error { return p.st.Close() }

// Lookup returns the stored simplification of e.
func (p *PersistentCache) Lookup(ctx context.Context, e Expr) (Expr, bool) {
	raw, ok, err := p.st.Get(ctx, store.Key(simplifyNamespace, e.Hash()))
	if err != nil {
		logger().Warn("persistent cache read failed", "err", err)
		cacheLookups.WithLabelValues("store", "error").Inc()
		return nil, false
	}
	if !ok {
		cacheLookups.WithLabelValues("store", "miss").Inc()
		return nil, false
	}
	var rec persistRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		cacheLookups.WithLabelValues("store", "corrupt").Inc()
		return nil, false
	}
	in, err := UnmarshalExpr(rec.Input)
	if err != nil || !in.Equal(e) {
		cacheLookups.WithLabelValues("store", "corrupt").Inc()
		return nil, false
	}
	out, err := UnmarshalExpr(rec.Output)
	if err != nil {
		cacheLookups.WithLabelValues("store", "corrupt").Inc()
		return nil, false
	}
	cacheLookups.WithLabelValues("store", "hit").Inc()
	return out, true
}

// Save records out as the simplification of in.
func (p *PersistentCache) Save(ctx context.Context, in, out Expr) error {
	inRaw, err := MarshalExpr(in)
	if err != nil {
		return err
	}
	outRaw, err := MarshalExpr(out)
	if err != nil {
		return err
	}
	val, err := json.Marshal(persistRecord{Input: inRaw, Output: outRaw})
	if err != nil {
		return err
	}
	return p.st.Put(ctx, store.Key(simplifyNamespace, in.Hash()), val)
}

// Len counts the stored records.
func (p *PersistentCache) Len(ctx context.Context) (int, error) {
	return p.st.Count(ctx, simplifyNamespace)
}

// Clear removes every stored record.
func (p *PersistentCache) Clear() error { return p.st.DropNamespace(simplifyNamespace) }

var persistent atomic.Pointer[PersistentCache]

// AttachPersistentCache makes Simplify consult p after an in-memory miss.
// A nil p detaches.
func AttachPersistentCache(p *PersistentCache) { persistent.Store(p) }
