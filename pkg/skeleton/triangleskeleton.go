package skeleton

import (
	"log/slog"

	"github.com/google/uuid"

	"starforge/internal/obslog"
)

// SkVrtxId is an opaque vertex handle managed by a SubdivSkeleton.
type SkVrtxId uint32

// SubdivSkeleton wraps a SubdivIdTree[SkVrtxId] with reference counting. It
// stores no vertex payload (positions, normals); that is the caller's
// responsibility, keyed by the IDs this type hands out.
type SubdivSkeleton struct {
	vrtxIds       SubdivIdTree[SkVrtxId]
	vrtxRefCount  []uint8

	// StrictDebugChecks turns refcount underflow (removing a reference
	// from a vertex already at zero) into a panic. With it off, such a
	// remove is ignored and the refcount stays at zero. Enabled by default.
	StrictDebugChecks bool
}

// NewSubdivSkeleton creates an empty SubdivSkeleton.
func NewSubdivSkeleton() *SubdivSkeleton {
	return &SubdivSkeleton{
		vrtxIds:           *NewSubdivIdTree[SkVrtxId](),
		StrictDebugChecks: true,
	}
}

func (s *SubdivSkeleton) growRefCount() {
	n := s.vrtxIds.SizeRequired()
	if len(s.vrtxRefCount) < n {
		grown := make([]uint8, n)
		copy(grown, s.vrtxRefCount)
		s.vrtxRefCount = grown
	}
}

// VrtxCreateRoot allocates an unrelated vertex with no parents.
func (s *SubdivSkeleton) VrtxCreateRoot() (SkVrtxId, error) {
	id, err := s.vrtxIds.CreateRoot()
	if err != nil {
		return 0, err
	}
	s.growRefCount()
	return id, nil
}

// VrtxCreateOrGetChild returns the canonical midpoint vertex of {a,b},
// creating it (with a zero refcount) on first call.
func (s *SubdivSkeleton) VrtxCreateOrGetChild(a, b SkVrtxId) (SkVrtxId, error) {
	id, _, err := s.vrtxIds.CreateOrGet(a, b)
	if err != nil {
		return 0, err
	}
	s.growRefCount()
	return id, nil
}

// VrtxIds exposes the underlying id tree, e.g. to inspect parentage.
func (s *SubdivSkeleton) VrtxIds() *SubdivIdTree[SkVrtxId] { return &s.vrtxIds }

// VrtxExists reports whether id currently denotes a live vertex.
func (s *SubdivSkeleton) VrtxExists(id SkVrtxId) bool { return s.vrtxIds.Exists(id) }

// VrtxReserve preallocates for n additional vertices.
func (s *SubdivSkeleton) VrtxReserve(n int) {
	s.vrtxIds.Reserve(n)
	s.growRefCount()
}

// VrtxReserveMore preallocates for n vertices beyond the current count.
func (s *SubdivSkeleton) VrtxReserveMore(n int) {
	s.vrtxIds.ReserveMore(n)
	s.growRefCount()
}

// VrtxRefcountAdd increments id's refcount, saturating at 255 rather than
// wrapping — a held reference beyond 255 owners is treated as "still held"
// rather than corrupted.
func (s *SubdivSkeleton) VrtxRefcountAdd(id SkVrtxId) {
	if s.vrtxRefCount[id] < 255 {
		s.vrtxRefCount[id]++
	}
}

// VrtxRefcountRemove decrements id's refcount. With StrictDebugChecks, a
// remove on a vertex already at zero panics instead of underflowing.
func (s *SubdivSkeleton) VrtxRefcountRemove(id SkVrtxId) {
	if s.vrtxRefCount[id] == 0 {
		if s.StrictDebugChecks {
			panic(wrapf(ErrRefcountUnderflow, "removing vertex %d", id))
		}
		return
	}
	s.vrtxRefCount[id]--
}

// VrtxRefcount returns id's current refcount.
func (s *SubdivSkeleton) VrtxRefcount(id SkVrtxId) uint8 { return s.vrtxRefCount[id] }

// SkTriId is an opaque triangle handle: (groupID << 2) | siblingIndex.
type SkTriId uint32

// SkTriGroupId is an opaque handle for a group of four sibling triangles.
type SkTriGroupId uint32

// TriGroupID returns the group a triangle belongs to.
func TriGroupID(id SkTriId) SkTriGroupId { return SkTriGroupId(uint32(id) / 4) }

// TriSiblingIndex returns a triangle's index (0-3) within its group.
func TriSiblingIndex(id SkTriId) uint8 { return uint8(uint32(id) % 4) }

// TriID composes a triangle id from a group id and sibling index (0-3).
func TriID(group SkTriGroupId, siblingIndex uint8) SkTriId {
	return SkTriId(uint32(group)*4 + uint32(siblingIndex))
}

// Sibling indices within a group, per the standard 1-to-4 subdivision.
const (
	TriTop    = 0
	TriLeft   = 1
	TriRight  = 2
	TriCenter = 3
)

// SkeletonTriangle is one of the four triangles in a SkTriGroup. Vertices
// are ordered counter-clockwise starting from the "top" corner: 0 top,
// 1 left, 2 right. Children is the group this triangle subdivides into, if
// it has been subdivided.
type SkeletonTriangle struct {
	Vertices [3]SkVrtxId
	Children SkTriGroupId
	HasChildren bool
}

// SkTriGroup is four sibling triangles created together by one
// subdivision: Top, Left, Right corner children plus an inverted Center
// child (whose "top" vertex is the bottom-middle point of the parent).
// This arrangement does not apply to root (unparented) groups.
type SkTriGroup struct {
	Triangles [4]SkeletonTriangle
	Parent    SkTriId
	HasParent bool
	Depth     uint8
}

// SubdivTriangleSkeleton is a SubdivSkeleton that also manages reference
// counted triangle groups: a subdividable mesh topology with shared,
// crack-free edges. It stores no vertex payload.
type SubdivTriangleSkeleton struct {
	SubdivSkeleton

	id uuid.UUID

	triIds      IdRegistry[SkTriGroupId]
	triData     []SkTriGroup
	triRefCount []uint8
}

// NewSubdivTriangleSkeleton creates an empty SubdivTriangleSkeleton.
func NewSubdivTriangleSkeleton() *SubdivTriangleSkeleton {
	return &SubdivTriangleSkeleton{
		SubdivSkeleton: *NewSubdivSkeleton(),
		id:             uuid.New(),
	}
}

func (s *SubdivTriangleSkeleton) log() *slog.Logger {
	return obslog.With("component", "skeleton.SubdivTriangleSkeleton", "skeleton_id", s.id.String())
}

func (s *SubdivTriangleSkeleton) triGroupResizeFitIds() {
	n := s.triIds.SizeRequired()
	if len(s.triData) < n {
		grown := make([]SkTriGroup, n)
		copy(grown, s.triData)
		s.triData = grown
	}
	if want := n * 4; len(s.triRefCount) < want {
		grown := make([]uint8, want)
		copy(grown, s.triRefCount)
		s.triRefCount = grown
	}
}

// VrtxCreateMiddles returns the three canonical edge midpoints of a
// triangle's vertices, in the order {mid(v0,v1), mid(v1,v2), mid(v2,v0)} —
// matching the input order TriSubdiv expects for vrtxMid.
func (s *SubdivTriangleSkeleton) VrtxCreateMiddles(vertices [3]SkVrtxId) ([3]SkVrtxId, error) {
	var out [3]SkVrtxId
	var err error
	out[0], err = s.VrtxCreateOrGetChild(vertices[0], vertices[1])
	if err != nil {
		return out, err
	}
	out[1], err = s.VrtxCreateOrGetChild(vertices[1], vertices[2])
	if err != nil {
		return out, err
	}
	out[2], err = s.VrtxCreateOrGetChild(vertices[2], vertices[0])
	if err != nil {
		return out, err
	}
	return out, nil
}

// VrtxCreateChunkEdgeRecurse fills out (of length 2^level - 1) with the
// vertices subdividing the edge a-b into 2^level equal segments, in order
// from a to b, by repeatedly creating canonical midpoints. level == 0
// leaves out untouched (and out must then be empty).
func (s *SubdivTriangleSkeleton) VrtxCreateChunkEdgeRecurse(level uint, a, b SkVrtxId, out []SkVrtxId) error {
	if level == 0 {
		return nil
	}

	mid, err := s.VrtxCreateOrGetChild(a, b)
	if err != nil {
		return err
	}
	half := len(out) / 2
	out[half] = mid

	if err := s.VrtxCreateChunkEdgeRecurse(level-1, a, mid, out[:half]); err != nil {
		return err
	}
	return s.VrtxCreateChunkEdgeRecurse(level-1, mid, b, out[half+1:])
}

// TriGroupCreate allocates a new group of four triangles at depth, as
// children of parent (ignored for root groups), with the given per-triangle
// vertex triples in Top/Left/Right/Center order. Every vertex referenced
// gets its refcount bumped.
func (s *SubdivTriangleSkeleton) TriGroupCreate(depth uint8, parent SkTriId, hasParent bool, vertices [4][3]SkVrtxId) (SkTriGroupId, error) {
	return s.triGroupCreate(depth, parent, hasParent, vertices, [4]bool{true, true, true, true})
}

// TriGroupCreateSingle allocates a new group holding a single real root
// triangle (used to seed unrelated top-level triangles, e.g. the faces of
// an icosahedron) in the Top slot; the remaining three slots stay empty
// and untouched by reference counting.
func (s *SubdivTriangleSkeleton) TriGroupCreateSingle(vertices [3]SkVrtxId) (SkTriGroupId, error) {
	return s.triGroupCreate(0, 0, false, [4][3]SkVrtxId{vertices, {}, {}, {}}, [4]bool{true, false, false, false})
}

func (s *SubdivTriangleSkeleton) triGroupCreate(depth uint8, parent SkTriId, hasParent bool, vertices [4][3]SkVrtxId, used [4]bool) (SkTriGroupId, error) {
	groupID, err := s.triIds.Create()
	if err != nil {
		return 0, err
	}
	s.triGroupResizeFitIds()

	group := &s.triData[groupID]
	group.Parent = parent
	group.HasParent = hasParent
	group.Depth = depth

	for i := 0; i < 4; i++ {
		tri := &group.Triangles[i]
		tri.HasChildren = false
		if !used[i] {
			continue
		}
		tri.Vertices = vertices[i]
		for _, v := range vertices[i] {
			s.VrtxRefcountAdd(v)
		}
	}
	return groupID, nil
}

// TriAt returns a pointer to the live triangle denoted by id, or
// ErrIdNotLive if id's group has no live entry in triIds.
func (s *SubdivTriangleSkeleton) TriAt(id SkTriId) (*SkeletonTriangle, error) {
	group := TriGroupID(id)
	if !s.triIds.Exists(group) {
		return nil, wrapf(ErrIdNotLive, "triangle %d", id)
	}
	sibling := TriSiblingIndex(id)
	return &s.triData[group].Triangles[sibling], nil
}

// TriSubdiv subdivides the triangle at triId into four children using the
// three precomputed edge midpoints vrtxMid (in {mid(v0,v1), mid(v1,v2),
// mid(v2,v0)} order, i.e. VrtxCreateMiddles' output for this triangle).
// Calling TriSubdiv again on an already-subdivided triangle is a no-op: it
// returns the existing child group and created == false, without creating
// new triangles or double-incrementing refcounts.
func (s *SubdivTriangleSkeleton) TriSubdiv(triId SkTriId, vrtxMid [3]SkVrtxId) (group SkTriGroupId, created bool, err error) {
	tri, err := s.TriAt(triId)
	if err != nil {
		return 0, false, err
	}
	if tri.HasChildren {
		return tri.Children, false, nil
	}

	top := tri.Vertices[0]
	left := tri.Vertices[1]
	right := tri.Vertices[2]
	mA, mB, mC := vrtxMid[0], vrtxMid[1], vrtxMid[2]

	parentGroup, err := s.TriGroupAt(TriGroupID(triId))
	if err != nil {
		return 0, false, err
	}
	depth := parentGroup.Depth + 1

	groupID, err := s.TriGroupCreate(depth, triId, true, [4][3]SkVrtxId{
		{top, mA, mC},  // top
		{mA, left, mB}, // left
		{mC, mB, right}, // right
		{mB, mA, mC},   // center, inverted
	})
	if err != nil {
		return 0, false, err
	}

	// Creating the group may have reallocated triData; look the parent
	// triangle up again rather than writing through the old pointer.
	tri = &s.triData[TriGroupID(triId)].Triangles[TriSiblingIndex(triId)]
	tri.HasChildren = true
	tri.Children = groupID
	s.log().Debug("triangle subdivided", "triangle", uint32(triId), "child_group", uint32(groupID))
	return groupID, true, nil
}

// TriGroupRemove collapses a group of four children produced by TriSubdiv:
// every vertex referenced by its 12 triangle corners has its refcount
// decremented via VrtxRefcountRemove, the parent triangle's HasChildren is
// cleared, and the group id is freed back to triIds for reuse. Root groups
// (HasParent == false, e.g. from TriGroupCreateSingle) cannot be collapsed
// this way: they don't carry the uniform four-real-triangle layout a
// subdivision produces, so there is no parent to restore and no safe way to
// tell an unused corner from vertex id 0.
func (s *SubdivTriangleSkeleton) TriGroupRemove(id SkTriGroupId) error {
	group, err := s.TriGroupAt(id)
	if err != nil {
		return err
	}
	if !group.HasParent {
		return wrapf(ErrNotCollapsible, "triangle group %d has no parent", id)
	}

	for i := range group.Triangles {
		tri := &group.Triangles[i]
		for _, v := range tri.Vertices {
			s.VrtxRefcountRemove(v)
		}
		tri.HasChildren = false
		tri.Children = 0
	}

	parent, err := s.TriAt(group.Parent)
	if err != nil {
		return err
	}
	parent.HasChildren = false
	parent.Children = 0

	s.triIds.Remove(id)
	s.log().Debug("triangle group collapsed", "child_group", uint32(id))
	return nil
}

// TriGroupAt returns the group denoted by id, or ErrIdNotLive if id has no
// live entry in triIds.
func (s *SubdivTriangleSkeleton) TriGroupAt(id SkTriGroupId) (*SkTriGroup, error) {
	if !s.triIds.Exists(id) {
		return nil, wrapf(ErrIdNotLive, "triangle group %d", id)
	}
	return &s.triData[id], nil
}

// TriGroupExists reports whether group id is currently live.
func (s *SubdivTriangleSkeleton) TriGroupExists(id SkTriGroupId) bool { return s.triIds.Exists(id) }

// TriGroupReserve preallocates for n additional triangle groups.
func (s *SubdivTriangleSkeleton) TriGroupReserve(n int) {
	s.triIds.Reserve(n)
	s.triGroupResizeFitIds()
}

// TriGroupReserveMore preallocates for n groups beyond the current count.
func (s *SubdivTriangleSkeleton) TriGroupReserveMore(n int) {
	s.triIds.ReserveMore(n)
	s.triGroupResizeFitIds()
}

// TriRefcountAdd increments a triangle's refcount, saturating at 255.
func (s *SubdivTriangleSkeleton) TriRefcountAdd(id SkTriId) {
	if s.triRefCount[id] < 255 {
		s.triRefCount[id]++
	}
}

// TriRefcountRemove decrements a triangle's refcount. With
// StrictDebugChecks, removing from zero panics instead of underflowing.
func (s *SubdivTriangleSkeleton) TriRefcountRemove(id SkTriId) {
	if s.triRefCount[id] == 0 {
		if s.StrictDebugChecks {
			panic(wrapf(ErrRefcountUnderflow, "removing triangle %d", id))
		}
		return
	}
	s.triRefCount[id]--
}

// TriRefcount returns a triangle's current refcount.
func (s *SubdivTriangleSkeleton) TriRefcount(id SkTriId) uint8 { return s.triRefCount[id] }
