// Package arena implements the fixed-stride node memory arena for a flat
// navigable-graph index: a single contiguous byte buffer, allocated once to
// its full capacity, holding every node as a [data|links|label] byte tuple.
//
// Unlike a bump-allocating or chunked arena, slots are addressed directly by
// node id (id*stride), never allocated individually — there is exactly one
// allocation for the whole index's lifetime, and no reallocation.
package arena
