// Package simd provides vector operations backing the distance package's
// kernels.
//
// # Dispatch
//
// Every kernel is a pure-Go generic implementation (kernels.go), installed
// as the default value of a kernelXxx function-pointer variable. capability.go
// detects CPU features (via golang.org/x/sys/cpu) and reports the best ISA
// available (ActiveISA, HasAVX2, HasAVX512, HasASIMD, HasSVE2) for callers
// that want to know what the platform supports, but no assembly kernels are
// wired into this build: the generic implementations are used unconditionally.
// internal/simd/cmd/generator is the tool that would produce hand-written
// AVX2/AVX-512/NEON/SVE2 assembly and its Go dispatch glue from a C
// reference; see DESIGN.md for why that path isn't carried in this tree.
//
// # Operations
//
//   - Distance: Dot, SquaredL2, Hamming
//   - Batch: DotBatch, SquaredL2Batch
//   - Utility: ScaleInPlace, Sqrt
package simd
