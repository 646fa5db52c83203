// Package distance defines the Capability contract the graph core
// consumes and its two concrete implementations, L2 and InnerProduct, each
// backed by internal/simd's kernels. Those kernels are pure Go in this
// build; no AVX or NEON assembly is used.
//
// A Capability owns the mapping between a raw vector and its stored form,
// computes distance between two stored-form vectors, and persists its own
// parameters (dimension, DISTANCE_ID) via Save/Load.
//
// # Usage
//
//	cap := &distance.L2{Dimension: 128}
//	d := cap.Distance(x, y)
//
//	dot := distance.Dot(a, b)
//	normalized, ok := distance.NormalizeL2Copy(vec)
package distance
