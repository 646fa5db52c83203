// Package testutil provides testing utilities for annidx.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors, computing exact
// nearest neighbors, and verifying approximate search recall.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(1000, 128)  // uniform [0, 1)
//	unit := rng.UnitVectors(1000, 128)     // L2-normalized, for inner-product
//
// # Exact Search (Ground Truth)
//
//	truth := testutil.BruteForceSearch(vectors, query, k)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(truth, approxResults)
package testutil
