package chunkmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/pkg/skeleton"
)

func TestLUT_LevelZero_Empty(t *testing.T) {
	lut := NewLUT(0)
	assert.Equal(t, 3, lut.BoundaryCount())
	assert.Equal(t, 0, lut.FillCount())
	assert.Empty(t, lut.Entries())
}

func TestLUT_LevelOne_NoInteriorFill(t *testing.T) {
	lut := NewLUT(1)
	assert.Equal(t, 6, lut.BoundaryCount())
	assert.Equal(t, 0, lut.FillCount(), "a level-1 chunk has no interior vertices, only the midpoint of each edge")
	assert.Empty(t, lut.Entries())
}

func TestLUT_LevelTwo_ThreeInteriorVertices(t *testing.T) {
	lut := NewLUT(2)
	// total = (n+1)(n+2)/2 with n=4 -> 15; boundary = 3n = 12; fill = 3.
	assert.Equal(t, 12, lut.BoundaryCount())
	assert.Equal(t, 3, lut.FillCount())
	assert.Len(t, lut.Entries(), 3)
}

// edgeBetween returns the interior vertices subdividing a-b into 2^level
// segments, in order from a to b.
func edgeBetween(t *testing.T, sk *skeleton.SubdivTriangleSkeleton, level uint, a, b skeleton.SkVrtxId) []skeleton.SkVrtxId {
	t.Helper()
	out := make([]skeleton.SkVrtxId, (1<<level)-1)
	require.NoError(t, sk.VrtxCreateChunkEdgeRecurse(level, a, b, out))
	return out
}

func TestMesh_ChunkCreate_SharesAdjacentEdge(t *testing.T) {
	sk := skeleton.NewSubdivTriangleSkeleton()
	seed, err := skeleton.BuildIcosahedron(sk)
	require.NoError(t, err)

	// Faces 0 and 1 are (0,11,5) and (0,5,1): they share the edge V0-V5.
	face0 := seed.Triangles[0]
	face1 := seed.Triangles[1]

	level := uint(1)
	mesh := Make(4, int(level), 4, 1)

	tri0, err := sk.TriAt(face0)
	require.NoError(t, err)
	edgeA0 := edgeBetween(t, sk, level, tri0.Vertices[0], tri0.Vertices[1])
	edgeB0 := edgeBetween(t, sk, level, tri0.Vertices[1], tri0.Vertices[2])
	edgeC0 := edgeBetween(t, sk, level, tri0.Vertices[2], tri0.Vertices[0])

	chunk0, err := mesh.ChunkCreate(sk, face0, edgeA0, edgeB0, edgeC0)
	require.NoError(t, err)

	tri1, err := sk.TriAt(face1)
	require.NoError(t, err)
	edgeA1 := edgeBetween(t, sk, level, tri1.Vertices[0], tri1.Vertices[1])
	edgeB1 := edgeBetween(t, sk, level, tri1.Vertices[1], tri1.Vertices[2])
	edgeC1 := edgeBetween(t, sk, level, tri1.Vertices[2], tri1.Vertices[0])

	chunk1, err := mesh.ChunkCreate(sk, face1, edgeA1, edgeB1, edgeC1)
	require.NoError(t, err)

	assert.True(t, mesh.ChunkExists(chunk0))
	assert.True(t, mesh.ChunkExists(chunk1))

	// V0 and V5 are corners of both triangles; the midpoint of V0-V5 is
	// also shared, since VrtxCreateChunkEdgeRecurse's canonical midpoint is
	// order-insensitive.
	sharedV0, ok := mesh.SharedIDFor(tri0.Vertices[0])
	require.True(t, ok)
	assert.EqualValues(t, 2, mesh.SharedRefcount(sharedV0))

	sharedV5, ok := mesh.SharedIDFor(tri0.Vertices[2])
	require.True(t, ok)
	assert.EqualValues(t, 2, mesh.SharedRefcount(sharedV5))

	sharedMid, ok := mesh.SharedIDFor(edgeC0[0])
	require.True(t, ok)
	assert.EqualValues(t, 2, mesh.SharedRefcount(sharedMid))

	// V11 only belongs to chunk0's boundary.
	sharedV11, ok := mesh.SharedIDFor(tri0.Vertices[1])
	require.True(t, ok)
	assert.EqualValues(t, 1, mesh.SharedRefcount(sharedV11))

	require.NoError(t, mesh.ChunkRemove(chunk0))
	assert.False(t, mesh.ChunkExists(chunk0))
	assert.EqualValues(t, 1, mesh.SharedRefcount(sharedV0), "chunk1 still references V0")
	_, stillShared := mesh.SharedIDFor(tri0.Vertices[1])
	assert.False(t, stillShared, "V11 was only used by the removed chunk and must be recycled")

	require.NoError(t, mesh.ChunkRemove(chunk1))
	assert.False(t, mesh.ChunkExists(chunk1))
	_, stillShared = mesh.SharedIDFor(tri0.Vertices[0])
	assert.False(t, stillShared, "no live chunk references V0 anymore")
}

func TestMesh_ChunkCreate_EdgeLengthMismatch(t *testing.T) {
	sk := skeleton.NewSubdivTriangleSkeleton()
	seed, err := skeleton.BuildIcosahedron(sk)
	require.NoError(t, err)

	mesh := Make(1, 2, 4, 1)
	_, err = mesh.ChunkCreate(sk, seed.Triangles[0], nil, nil, nil)
	assert.ErrorIs(t, err, ErrEdgeLengthMismatch)
}

func TestMesh_ChunkCreate_CapacityExceeded(t *testing.T) {
	sk := skeleton.NewSubdivTriangleSkeleton()
	seed, err := skeleton.BuildIcosahedron(sk)
	require.NoError(t, err)

	level := uint(1)
	mesh := Make(1, int(level), 4, 1)

	tri, err := sk.TriAt(seed.Triangles[0])
	require.NoError(t, err)
	edgeA := edgeBetween(t, sk, level, tri.Vertices[0], tri.Vertices[1])
	edgeB := edgeBetween(t, sk, level, tri.Vertices[1], tri.Vertices[2])
	edgeC := edgeBetween(t, sk, level, tri.Vertices[2], tri.Vertices[0])

	_, err = mesh.ChunkCreate(sk, seed.Triangles[0], edgeA, edgeB, edgeC)
	require.NoError(t, err)

	tri1, err := sk.TriAt(seed.Triangles[1])
	require.NoError(t, err)
	edgeA1 := edgeBetween(t, sk, level, tri1.Vertices[0], tri1.Vertices[1])
	edgeB1 := edgeBetween(t, sk, level, tri1.Vertices[1], tri1.Vertices[2])
	edgeC1 := edgeBetween(t, sk, level, tri1.Vertices[2], tri1.Vertices[0])

	_, err = mesh.ChunkCreate(sk, seed.Triangles[1], edgeA1, edgeB1, edgeC1)
	assert.ErrorIs(t, err, ErrChunkCapacityExceeded)
}

func TestMesh_ChunkCalcVrtxFill_UnknownChunk(t *testing.T) {
	mesh := Make(1, 1, 4, 1)
	err := mesh.ChunkCalcVrtxFill(ChunkId(0), func(ChunkId, []SharedVrtxId, int, int, []byte) {})
	assert.ErrorIs(t, err, ErrUnknownChunk)
}
