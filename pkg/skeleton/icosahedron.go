package skeleton

// icosahedronFaces lists the 20 faces of a regular icosahedron as triples
// of vertex indices (0-11), each wound counter-clockwise as seen from
// outside the solid. This is pure connectivity data; it carries no vertex
// positions, matching this package's topology-only scope.
var icosahedronFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// IcosahedronSeed is the result of seeding a fresh SubdivTriangleSkeleton
// with a regular icosahedron: 12 root vertices and 20 depth-0 root
// triangles, ready for subdivision.
type IcosahedronSeed struct {
	Vertices  [12]SkVrtxId
	Triangles [20]SkTriId
}

// BuildIcosahedron seeds an empty SubdivTriangleSkeleton with the topology
// of a regular icosahedron: 12 vertices and 20 triangles, each triangle a
// single-triangle "group" of its own (siblings Left/Right/Center unused),
// packing one real root triangle into an otherwise-unused group of four
// slots.
//
// This carries no position or radius information; the caller is
// responsible for assigning geometry to the returned vertex IDs.
func BuildIcosahedron(s *SubdivTriangleSkeleton) (IcosahedronSeed, error) {
	var seed IcosahedronSeed

	for i := range seed.Vertices {
		v, err := s.VrtxCreateRoot()
		if err != nil {
			return seed, err
		}
		seed.Vertices[i] = v
	}

	for i, face := range icosahedronFaces {
		tri := [3]SkVrtxId{
			seed.Vertices[face[0]],
			seed.Vertices[face[1]],
			seed.Vertices[face[2]],
		}
		groupID, err := s.TriGroupCreateSingle(tri)
		if err != nil {
			return seed, err
		}
		seed.Triangles[i] = TriID(groupID, TriTop)
	}

	return seed, nil
}
