package chunkmesh

// RefKind tags a VertexRef as pointing into a chunk's interior fill region
// or into the mesh-wide shared boundary pool.
type RefKind uint8

const (
	RefFill RefKind = iota
	RefShared
)

// VertexRef is a tagged reference to a vertex slot, resolved uniformly by
// LUT.Resolve regardless of which region it lands in.
type VertexRef struct {
	Kind  RefKind
	Index int
}

// ToSubdiv is one precomputed midpoint recipe: the output fill slot is the
// midpoint of the two input vertex refs. Entries are ordered so that every
// VrtxA/VrtxB has already been produced by an earlier entry (or is a
// boundary ref, always available).
type ToSubdiv struct {
	VrtxA, VrtxB VertexRef
	FillOut      int
}

// LUT precomputes, for one triangle subdivided level times, every interior
// ("fill") vertex as the midpoint of two earlier vertices. It is pure
// geometry: the same LUT is reused across every chunk at the same level.
type LUT struct {
	level         int
	n             int
	boundaryCount int
	fillCount     int
	entries       []ToSubdiv
}

// NewLUT builds the fill-vertex recipe table for a triangle subdivided
// level times.
func NewLUT(level int) *LUT {
	n := 1 << uint(level)
	b := &lutBuilder{n: n, refs: make(map[point]VertexRef)}
	top := point{n, 0, 0}
	left := point{0, n, 0}
	right := point{0, 0, n}
	b.recurse(level, top, left, right)

	return &LUT{
		level:         level,
		n:             n,
		boundaryCount: 3 * n,
		fillCount:     b.nextFill,
		entries:       b.entries,
	}
}

// Level returns the subdivision level this LUT was built for.
func (l *LUT) Level() int { return l.level }

// BoundaryCount returns the number of shared (boundary) vertex slots a
// chunk at this level needs: 3 corners plus 2^level-1 interior points on
// each of the 3 edges.
func (l *LUT) BoundaryCount() int { return l.boundaryCount }

// FillCount returns the number of strictly-interior vertex slots a chunk
// at this level needs.
func (l *LUT) FillCount() int { return l.fillCount }

// Entries returns the precomputed midpoint recipes, in dependency order.
func (l *LUT) Entries() []ToSubdiv { return l.entries }

// Resolve returns the byte span for ref within a chunk's buffers: fillBuf
// for fill-region refs, sharedBuf (indexed by the chunk's own boundary
// ordering via chunkShared) for shared refs.
func (l *LUT) Resolve(ref VertexRef, chunkShared []SharedVrtxId, fillBuf, sharedBuf []byte, stride int) []byte {
	switch ref.Kind {
	case RefFill:
		off := ref.Index * stride
		return fillBuf[off : off+stride]
	case RefShared:
		id := int(chunkShared[ref.Index])
		off := id * stride
		return sharedBuf[off : off+stride]
	default:
		panic("chunkmesh: invalid vertex ref kind")
	}
}

// point is a barycentric grid coordinate (i,j,k), i+j+k == n, over a
// triangle whose corners are (n,0,0) (top), (0,n,0) (left), (0,0,n)
// (right). Boundary points (any coordinate zero) map analytically onto a
// chunk's shared vertex ordering; interior points are fill vertices
// discovered during recursive quadtree subdivision.
type point struct{ i, j, k int }

func midpoint(a, b point) point {
	return point{(a.i + b.i) / 2, (a.j + b.j) / 2, (a.k + b.k) / 2}
}

func (p point) isBoundary() bool { return p.i == 0 || p.j == 0 || p.k == 0 }

// sharedIndex maps a boundary point to its position in the chunk boundary
// ordering [corner0, edgeA(1..n-1), corner1, edgeB(1..n-1), corner2,
// edgeC(1..n-1)], matching ChunkCreate's boundary-gathering order.
func sharedIndex(p point, n int) int {
	switch {
	case p.k == 0:
		return p.j
	case p.i == 0:
		return n + p.k
	default: // p.j == 0
		return 2*n + p.i
	}
}

type lutBuilder struct {
	n        int
	nextFill int
	refs     map[point]VertexRef
	entries  []ToSubdiv
}

func (b *lutBuilder) refFor(p point) VertexRef {
	if r, ok := b.refs[p]; ok {
		return r
	}
	r := VertexRef{Kind: RefShared, Index: sharedIndex(p, b.n)}
	b.refs[p] = r
	return r
}

func (b *lutBuilder) getOrCreateMid(a, c point) VertexRef {
	m := midpoint(a, c)
	if r, ok := b.refs[m]; ok {
		return r
	}
	if m.isBoundary() {
		return b.refFor(m)
	}
	r := VertexRef{Kind: RefFill, Index: b.nextFill}
	b.nextFill++
	b.refs[m] = r
	b.entries = append(b.entries, ToSubdiv{VrtxA: b.refFor(a), VrtxB: b.refFor(c), FillOut: r.Index})
	return r
}

// recurse walks the same 1-to-4 subdivision arrangement as
// skeleton.SubdivTriangleSkeleton.TriSubdiv (top/left/right/center,
// center inverted), but over barycentric grid points instead of vertex
// IDs, registering a ToSubdiv entry for every newly discovered interior
// midpoint.
func (b *lutBuilder) recurse(level int, top, left, right point) {
	if level == 0 {
		return
	}
	mA := midpoint(top, left)
	mB := midpoint(left, right)
	mC := midpoint(right, top)
	b.getOrCreateMid(top, left)
	b.getOrCreateMid(left, right)
	b.getOrCreateMid(right, top)

	b.recurse(level-1, top, mA, mC)
	b.recurse(level-1, mA, left, mB)
	b.recurse(level-1, mC, mB, right)
	b.recurse(level-1, mB, mA, mC)
}
