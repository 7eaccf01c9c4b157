package chunkmesh

import (
	"log/slog"

	"github.com/google/uuid"

	"starforge/internal/obslog"
	"starforge/pkg/skeleton"
)

// ChunkId is a dense identifier of an instantiated terrain chunk.
type ChunkId uint32

// SharedVrtxId identifies a vertex in the mesh-wide shared-edge pool. Each
// shared vertex maps to exactly one skeleton.SkVrtxId and is reference
// counted by the number of live chunks using it.
type SharedVrtxId uint32

// Mesh is a ChunkedTriangleMesh: a fixed-level grid of chunks, each with a
// dense interior ("fill") region plus boundary vertices shared with
// whichever neighbour chunks border the same skeleton edge. The vertex
// buffer is one contiguous byte array laid out as
// [chunk0 fill | chunk1 fill | ... | shared vertices], stride bytes per
// vertex.
type Mesh struct {
	id uuid.UUID

	level  int
	stride int
	scale  int

	lut *LUT

	chunks     *denseId[ChunkId]
	maxChunks  int
	chunkEdges [][]SharedVrtxId // per chunk, boundary ordering from ChunkCreate

	sharedIds    *denseId[SharedVrtxId]
	skelToShared map[skeleton.SkVrtxId]SharedVrtxId
	sharedToSkel []skeleton.SkVrtxId
	sharedRefs   []uint32

	buffer []byte

	pendingNewShared []SharedVrtxId
}

// Make allocates a Mesh sized for up to maxChunks chunks, each subdivided
// level times, with vrtxStride bytes per vertex. scale is carried through
// uninterpreted, for callers that encode a fixed-point or LOD scale factor
// alongside their own vertex data.
func Make(maxChunks, level, vrtxStride, scale int) *Mesh {
	lut := NewLUT(level)
	fillBytes := lut.FillCount() * vrtxStride

	return &Mesh{
		id:           uuid.New(),
		level:        level,
		stride:       vrtxStride,
		scale:        scale,
		lut:          lut,
		chunks:       newDenseIdBounded[ChunkId](maxChunks),
		maxChunks:    maxChunks,
		chunkEdges:   make([][]SharedVrtxId, maxChunks),
		sharedIds:    newDenseId[SharedVrtxId](),
		skelToShared: make(map[skeleton.SkVrtxId]SharedVrtxId),
		buffer:       make([]byte, maxChunks*fillBytes),
	}
}

func (m *Mesh) log() *slog.Logger {
	return obslog.With("component", "chunkmesh.Mesh", "mesh_id", m.id.String())
}

// LUT returns the mesh's precomputed interior-fill recipe table.
func (m *Mesh) LUT() *LUT { return m.lut }

// Level returns the subdivision level every chunk in this mesh uses.
func (m *Mesh) Level() int { return m.level }

// Stride returns the configured bytes-per-vertex.
func (m *Mesh) Stride() int { return m.stride }

func (m *Mesh) fillOffset(id ChunkId) int {
	return int(id) * m.lut.FillCount() * m.stride
}

func (m *Mesh) sharedOffset() int {
	return m.maxChunks * m.lut.FillCount() * m.stride
}

func (m *Mesh) growSharedBuffer() {
	want := m.sharedOffset() + m.sharedIds.size*m.stride
	if len(m.buffer) < want {
		grown := make([]byte, want)
		copy(grown, m.buffer)
		m.buffer = grown
	}
}

func (m *Mesh) sharedGetOrCreate(skVid skeleton.SkVrtxId) (SharedVrtxId, bool) {
	if id, ok := m.skelToShared[skVid]; ok {
		return id, false
	}
	id, _ := m.sharedIds.create() // unbounded allocator, never fails
	m.skelToShared[skVid] = id
	if int(id) >= len(m.sharedToSkel) {
		grown := make([]skeleton.SkVrtxId, id+1)
		copy(grown, m.sharedToSkel)
		m.sharedToSkel = grown
	}
	m.sharedToSkel[id] = skVid
	if int(id) >= len(m.sharedRefs) {
		grown := make([]uint32, id+1)
		copy(grown, m.sharedRefs)
		m.sharedRefs = grown
	}
	m.growSharedBuffer()
	return id, true
}

// ChunkCreate instantiates a chunk over tri's current geometry, using the
// interior edge vertices edgeA/edgeB/edgeC (each produced by
// skeleton.SubdivTriangleSkeleton.VrtxCreateChunkEdgeRecurse for the
// corresponding edge of tri, in order: edgeA for vertices[0]->vertices[1],
// edgeB for [1]->[2], edgeC for [2]->[0]). Every boundary vertex this chunk
// touches gets its shared refcount incremented, creating a SharedVrtxId
// for it on first use.
func (m *Mesh) ChunkCreate(sk *skeleton.SubdivTriangleSkeleton, tri skeleton.SkTriId, edgeA, edgeB, edgeC []skeleton.SkVrtxId) (ChunkId, error) {
	want := (1 << uint(m.level)) - 1
	if len(edgeA) != want || len(edgeB) != want || len(edgeC) != want {
		return 0, wrapf(ErrEdgeLengthMismatch, "want %d vertices per edge at level %d, got %d/%d/%d", want, m.level, len(edgeA), len(edgeB), len(edgeC))
	}

	triAt, err := sk.TriAt(tri)
	if err != nil {
		return 0, err
	}
	corners := triAt.Vertices

	id, ok := m.chunks.create()
	if !ok {
		return 0, wrapf(ErrChunkCapacityExceeded, "no free chunk slots (max %d)", m.maxChunks)
	}

	boundary := make([]skeleton.SkVrtxId, 0, m.lut.BoundaryCount())
	boundary = append(boundary, corners[0])
	boundary = append(boundary, edgeA...)
	boundary = append(boundary, corners[1])
	boundary = append(boundary, edgeB...)
	boundary = append(boundary, corners[2])
	boundary = append(boundary, edgeC...)

	chunkShared := make([]SharedVrtxId, len(boundary))
	for i, skVid := range boundary {
		sharedID, isNew := m.sharedGetOrCreate(skVid)
		m.sharedRefs[sharedID]++
		chunkShared[i] = sharedID
		if isNew {
			m.pendingNewShared = append(m.pendingNewShared, sharedID)
		}
	}
	m.chunkEdges[id] = chunkShared

	m.log().Debug("chunk created", "chunk", uint32(id), "triangle", uint32(tri))
	return id, nil
}

// SharedUpdate flushes every shared vertex created since the last call to
// cb: newlyAdded lists the shared slots needing their payload written,
// sharedToSkel maps every live shared slot back to its originating
// skeleton vertex (for reading source data such as positions), and buffer
// is the mesh's full vertex buffer (cb is expected to index its shared
// suffix starting at sharedOffset).
func (m *Mesh) SharedUpdate(cb func(newlyAdded []SharedVrtxId, sharedToSkel []skeleton.SkVrtxId, sharedOffset int, buffer []byte)) {
	cb(m.pendingNewShared, m.sharedToSkel, m.sharedOffset()/m.stride, m.buffer)
	m.pendingNewShared = m.pendingNewShared[:0]
}

// ChunkCalcVrtxFill invokes cb with everything it needs to fill id's
// interior region: the chunk's boundary ordering (to resolve LUT shared
// refs via LUT.Resolve), the fill-region vertex count, the shared-region
// offset (in vertices), and the mesh's full vertex buffer.
func (m *Mesh) ChunkCalcVrtxFill(id ChunkId, cb func(id ChunkId, chunkShared []SharedVrtxId, fillCount int, sharedOffset int, buffer []byte)) error {
	if !m.chunks.exists(id) {
		return wrapf(ErrUnknownChunk, "chunk %d", id)
	}
	cb(id, m.chunkEdges[id], m.lut.FillCount(), m.sharedOffset()/m.stride, m.buffer)
	return nil
}

// ChunkRemove decrements the refcount on every shared vertex id touches;
// any that reach zero are returned to the shared-id free list.
func (m *Mesh) ChunkRemove(id ChunkId) error {
	if !m.chunks.exists(id) {
		return wrapf(ErrUnknownChunk, "chunk %d", id)
	}

	for _, sharedID := range m.chunkEdges[id] {
		m.sharedRefs[sharedID]--
		if m.sharedRefs[sharedID] == 0 {
			delete(m.skelToShared, m.sharedToSkel[sharedID])
			m.sharedIds.remove(sharedID)
		}
	}
	m.chunkEdges[id] = nil
	m.chunks.remove(id)
	m.log().Debug("chunk removed", "chunk", uint32(id))
	return nil
}

// SharedRefcount returns the current refcount of a shared vertex, for
// tests and diagnostics.
func (m *Mesh) SharedRefcount(id SharedVrtxId) uint32 { return m.sharedRefs[id] }

// SharedIDFor looks up the shared-pool slot backing a skeleton vertex, if
// that vertex is currently part of any live chunk's boundary.
func (m *Mesh) SharedIDFor(skVid skeleton.SkVrtxId) (SharedVrtxId, bool) {
	id, ok := m.skelToShared[skVid]
	return id, ok
}

// ChunkExists reports whether id currently denotes a live chunk.
func (m *Mesh) ChunkExists(id ChunkId) bool { return m.chunks.exists(id) }
