// Package annidx is an in-memory approximate nearest neighbor index: a
// flat, single-layer, HNSW-style navigable proximity graph over
// fixed-capacity, fixed-dimension float32 vectors.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx, _ := annidx.New(&distance.L2{Dimension: 128}, 100_000, 16)
//	ok, _ := idx.Add(ctx, vector, label, 200)
//	results, _ := idx.Search(ctx, query, 10, 100)
//	for _, r := range results {
//	    fmt.Println(r.Label, r.Distance)
//	}
//
// # Memory Layout
//
// The index is backed by a single contiguous byte arena, allocated once to
// its full node capacity and never resized. Every node occupies the same
// stride: a fixed-size data payload, a fixed number of outgoing link slots,
// and a fixed-size opaque label. Node ids are dense, assigned monotonically
// from 0, and an unused link slot is a self-loop rather than a sentinel
// value.
//
// # Construction and Search
//
// Add samples a deterministic entry point, runs a best-first beam search
// bounded by efConstruction, prunes the candidate set down to m diverse
// neighbors with the HNSW heuristic, and wires the new node's edges both
// forward and backward. Search follows the same entry-point-then-beam-search
// path bounded by efSearch, returning the k closest results sorted ascending
// by distance.
//
// # Reordering
//
// ReorderGorder and ReorderRCM relabel the graph in place to improve cache
// locality during beam search, without changing which nodes are linked to
// which.
//
// # Concurrency
//
// The core is single-threaded: Add, AddBatch, ReorderGorder, ReorderRCM, and
// Load must not overlap with any other call into the same index. Search is
// safe to call concurrently across goroutines, since each call allocates its
// own scratch buffers and visited set.
package annidx
