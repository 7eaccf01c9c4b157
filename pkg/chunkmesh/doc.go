// Package chunkmesh instantiates terrain-resolution "chunks" over a
// skeleton triangle (see starforge/pkg/skeleton): each chunk owns a dense
// interior vertex grid plus boundary vertices shared with its neighbour
// chunks, so that adjacent chunks never diverge along a shared edge.
//
// Like pkg/skeleton, this package carries no opinion on vertex payload
// layout. Callers supply a byte stride and write their own vertex struct
// bytes into the buffer from inside the two callbacks this package
// invokes at the right moments: once a shared vertex's source data is
// known (SharedUpdate), and once a chunk's interior needs filling in by
// midpoint interpolation (ChunkCalcVrtxFill).
package chunkmesh
