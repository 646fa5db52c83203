// Command annidx-bench builds a random index and reports insert/search
// throughput. It is a thin diagnostic tool, not part of the library's
// public API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/annidx"
	"github.com/hupe1980/annidx/distance"
)

func main() {
	count := flag.Int("count", 10000, "number of vectors to insert")
	dim := flag.Int("dim", 128, "vector dimension")
	m := flag.Int("m", 16, "fixed out-degree")
	efConstruction := flag.Int("ef-construction", 200, "beam width used during insertion")
	efSearch := flag.Int("ef-search", 100, "beam width used during search")
	queries := flag.Int("queries", 1000, "number of search queries to run after construction")
	k := flag.Int("k", 10, "neighbors requested per search")
	insertsPerSec := flag.Float64("inserts-per-sec", 0, "throttle insertion to this rate; 0 disables throttling")
	reorderFlag := flag.String("reorder", "", "relabel the graph after construction: gorder, rcm, or empty to skip")

	flag.Parse()

	idx, err := annidx.New(&distance.L2{Dimension: *dim}, *count, *m)
	if err != nil {
		log.Fatalf("annidx-bench: %v", err)
	}

	var limiter *rate.Limiter
	if *insertsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(*insertsPerSec), 1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()
	vectors := make([][]float32, *count)

	insertStart := time.Now()
	for i := 0; i < *count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				log.Fatalf("annidx-bench: rate limiter: %v", err)
			}
		}

		v := randomVector(rng, *dim)
		vectors[i] = v

		if _, err := idx.Add(ctx, v, uint64(i+1), *efConstruction); err != nil {
			log.Fatalf("annidx-bench: add: %v", err)
		}
	}
	insertElapsed := time.Since(insertStart)
	fmt.Printf("inserted %d vectors in %s (%.0f/s)\n", *count, insertElapsed, float64(*count)/insertElapsed.Seconds())

	switch *reorderFlag {
	case "gorder":
		reorderStart := time.Now()
		if err := idx.ReorderGorder(5); err != nil {
			log.Fatalf("annidx-bench: reorder: %v", err)
		}
		fmt.Printf("gorder reorder completed in %s\n", time.Since(reorderStart))
	case "rcm":
		reorderStart := time.Now()
		if err := idx.ReorderRCM(); err != nil {
			log.Fatalf("annidx-bench: reorder: %v", err)
		}
		fmt.Printf("rcm reorder completed in %s\n", time.Since(reorderStart))
	case "":
	default:
		log.Fatalf("annidx-bench: unrecognized -reorder value %q", *reorderFlag)
	}

	searchStart := time.Now()
	for i := 0; i < *queries; i++ {
		q := vectors[rng.Intn(len(vectors))]
		if _, err := idx.Search(ctx, q, *k, *efSearch); err != nil {
			log.Fatalf("annidx-bench: search: %v", err)
		}
	}
	searchElapsed := time.Since(searchStart)
	fmt.Printf("ran %d searches in %s (%.0f/s)\n", *queries, searchElapsed, float64(*queries)/searchElapsed.Seconds())
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()
	}
	return v
}
