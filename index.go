// Package annidx implements an in-memory approximate nearest neighbor
// index: a flat (single-layer), HNSW-style navigable proximity graph over
// fixed-capacity, fixed-dimension vectors, backed by a fixed-stride node
// memory arena.
package annidx

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/annidx/distance"
	"github.com/hupe1980/annidx/internal/arena"
	"github.com/hupe1980/annidx/internal/format"
	"github.com/hupe1980/annidx/internal/graph"
	"github.com/hupe1980/annidx/reorder"
)

// Result is a single (label, distance) pair returned by Search, sorted
// ascending by Distance.
type Result struct {
	Label    uint64
	Distance float32
}

// Index is the public, concurrency-aware facade over the proximity graph:
// it owns the distance capability, the fixed-stride arena, and the graph
// wiring logic, and adds logging, metrics, and context plumbing around
// them.
type Index struct {
	dist  distance.Capability
	graph *graph.Graph
	m     int

	metrics MetricsCollector
	logger  *Logger
	kInit   int
}

// New creates an empty index with the given distance capability, fixed
// node capacity, and fixed out-degree m.
func New(dist distance.Capability, capacity, m int, opts ...Option) (*Index, error) {
	if dist == nil {
		return nil, errors.New("annidx: distance capability must not be nil")
	}
	if capacity <= 0 {
		return nil, errors.New("annidx: capacity must be positive")
	}
	if m <= 0 {
		return nil, errors.New("annidx: m must be positive")
	}

	o := applyOptions(opts)

	a := arena.New(dist.DataSize(), m, 8, uint32(capacity))
	g := graph.New(a, dist, m)

	return &Index{
		dist:    dist,
		graph:   g,
		m:       m,
		metrics: o.metricsCollector,
		logger:  o.logger,
		kInit:   o.kInit,
	}, nil
}

// Load restores an index from a previously Saved stream.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	start := time.Now()

	capability, a, err := format.Load(r)
	o.metricsCollector.RecordLoad(time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(ctx, "", 0, err)
		return nil, err
	}
	o.logger.LogLoad(ctx, "", a.Count(), err)

	g := graph.New(a, capability, int(a.M()))

	return &Index{
		dist:    capability,
		graph:   g,
		m:       int(a.M()),
		metrics: o.metricsCollector,
		logger:  o.logger,
		kInit:   o.kInit,
	}, nil
}

// Add inserts data, labeled label, into the index. It returns (false, nil)
// for the documented first-insertion quirk (the very first node ever added
// to an empty index is retained but reported as a failed insert), and
// (false, ErrCapacityExhausted) once the arena has no room left for a new
// node.
func (ix *Index) Add(ctx context.Context, data []float32, label uint64, efConstruction int, opts ...SearchOption) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(data) != ix.dist.DataSize()/4 {
		return false, &ErrDimensionMismatch{Expected: ix.dist.DataSize() / 4, Actual: len(data)}
	}

	so := ix.applySearchOptions(opts)
	start := time.Now()

	before := ix.graph.Arena().Count()
	ok := ix.graph.Add(data, label, efConstruction, so.kInit)

	ix.metrics.RecordAdd(time.Since(start), ok)
	ix.logger.LogAdd(ctx, label, ok)

	if !ok && ix.graph.Arena().Count() == before {
		return false, ErrCapacityExhausted
	}
	return ok, nil
}

// AddBatch inserts vectors and labels in order, stopping at the first
// error. It returns the number of vectors successfully wired in and the
// index of the first rejected vector, or -1 if every vector that could be
// added was. This performs no concurrency — it is a thin convenience loop
// over Add.
func (ix *Index) AddBatch(ctx context.Context, vectors [][]float32, labels []uint64, efConstruction int, opts ...SearchOption) (inserted int, firstFailedIndex int, err error) {
	if len(vectors) != len(labels) {
		return 0, -1, errors.New("annidx: vectors and labels must have the same length")
	}

	start := time.Now()
	firstFailedIndex = -1
	failed := 0

	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			return inserted, i, err
		}

		ok, addErr := ix.Add(ctx, v, labels[i], efConstruction, opts...)
		if addErr != nil {
			return inserted, i, addErr
		}
		if ok {
			inserted++
		} else {
			failed++
			if firstFailedIndex == -1 {
				firstFailedIndex = i
			}
		}
	}

	ix.metrics.RecordAddBatch(len(vectors), failed, time.Since(start))
	ix.logger.LogAddBatch(ctx, len(vectors), failed)
	return inserted, firstFailedIndex, nil
}

// Search returns the k closest vectors to query, sorted ascending by
// distance. It panics if the index is empty or if k is non-positive after
// resolving SearchOptions — a programmer error, not a recoverable one.
func (ix *Index) Search(ctx context.Context, query []float32, k, efSearch int, opts ...SearchOption) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		panic("annidx: k must be positive")
	}
	if len(query) != ix.dist.DataSize()/4 {
		return nil, &ErrDimensionMismatch{Expected: ix.dist.DataSize() / 4, Actual: len(query)}
	}

	so := ix.applySearchOptions(opts)
	if so.efSearch > 0 {
		efSearch = so.efSearch
	}
	if efSearch <= 0 {
		efSearch = k
	}

	start := time.Now()
	raw := ix.graph.Search(query, k, efSearch, so.kInit)
	ix.metrics.RecordSearch(k, time.Since(start), nil)
	ix.logger.LogSearch(ctx, k, len(raw), nil)

	results := make([]Result, len(raw))
	for i, r := range raw {
		results[i] = Result{Label: r.Label, Distance: r.Distance}
	}
	return results, nil
}

// SearchBatch runs len(queries) independent Search calls concurrently,
// returning results in the same order as queries. It relies on Search's
// per-call scratch and visited set, which is the only property §5's
// concurrency model requires for concurrent search — no additional
// synchronization is needed here.
func (ix *Index) SearchBatch(ctx context.Context, queries [][]float32, k, efSearch int, opts ...SearchOption) ([][]Result, error) {
	results := make([][]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			r, err := ix.Search(gctx, q, k, efSearch, opts...)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ReorderGorder relabels the graph in place using a windowed-greedy
// cache-locality ordering (see package reorder).
func (ix *Index) ReorderGorder(window int) error {
	start := time.Now()
	perm := reorder.Gorder(ix.graph.Adjacency(), window)
	err := ix.graph.Relabel(perm)
	ix.metrics.RecordReorder("gorder", time.Since(start), err)
	ix.logger.LogReorder(context.Background(), "gorder", err)
	return err
}

// ReorderRCM relabels the graph in place using a reverse Cuthill-McKee
// ordering (see package reorder).
func (ix *Index) ReorderRCM() error {
	start := time.Now()
	perm := reorder.RCM(ix.graph.Adjacency())
	err := ix.graph.Relabel(perm)
	ix.metrics.RecordReorder("rcm", time.Since(start), err)
	ix.logger.LogReorder(context.Background(), "rcm", err)
	return err
}

// Save writes the index's distance capability, shape header, and arena
// bytes to w. With WithCompression, the arena payload is lz4-compressed;
// the header remains uncompressed and readable for validation before the
// costly payload is touched.
func (ix *Index) Save(w io.Writer, opts ...SaveOption) error {
	so := applySaveOptions(opts)
	start := time.Now()
	err := format.Save(w, ix.dist, ix.graph.Arena(), so.compress)
	ix.metrics.RecordSave(time.Since(start), err)
	ix.logger.LogSave(context.Background(), "", err)
	return err
}

// Len returns the number of nodes currently in the index.
func (ix *Index) Len() int { return int(ix.graph.Arena().Count()) }

// Capacity returns the fixed maximum number of nodes the index can hold.
func (ix *Index) Capacity() int { return int(ix.graph.Arena().Capacity()) }

func (ix *Index) applySearchOptions(opts []SearchOption) searchOptions {
	so := searchOptions{kInit: ix.kInit}
	for _, fn := range opts {
		if fn != nil {
			fn(&so)
		}
	}
	return so
}
