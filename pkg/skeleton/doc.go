// Package skeleton implements a reference-counted, recursively-subdividable
// triangular mesh topology: IdRegistry, SubdivIdTree, SubdivSkeleton, and
// SubdivTriangleSkeleton.
//
// Vertices are identified by opaque IDs produced by a deterministic
// "two-parent hash": the same unordered pair of parent vertices always
// yields the same child vertex ID, which is what keeps shared edges
// crack-free across adjacent triangles. Triangles live in groups of four (a
// parent triangle and its three corner children plus one inverted centre
// child, the standard 1-to-4 subdivision) and are subdivided on demand.
//
// This package stores no vertex positions, normals, or any other payload —
// it is pure topology. Geometry is the caller's responsibility.
package skeleton
