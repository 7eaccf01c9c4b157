package skeleton

// id is the constraint every ID type in this package satisfies: a dense,
// 32-bit integral handle.
type id interface {
	~uint32
}

// IdRegistry is a dense allocator of opaque IDs, backed by a presence
// bitset and a free-list of recycled indices.
type IdRegistry[T id] struct {
	exists  presenceSet
	size    int // one past the highest index ever allocated
	deleted []T // free list of recycled indices, most-recently-freed last

	noAutoResize bool
	capacity     int // only enforced when noAutoResize is true
}

// NewIdRegistry creates an IdRegistry that grows automatically as ids are
// created.
func NewIdRegistry[T id]() *IdRegistry[T] {
	return &IdRegistry[T]{}
}

// NewIdRegistryNoAutoResize creates an IdRegistry capped at capacity ids;
// Create returns ErrCapacityExceeded once that many distinct ids have been
// allocated (recycling via Remove/Create does not count against the cap
// again, since reused slots don't grow size).
func NewIdRegistryNoAutoResize[T id](capacity int) *IdRegistry[T] {
	return &IdRegistry[T]{noAutoResize: true, capacity: capacity}
}

// SizeRequired returns the array size required to fit every currently
// existing id: the highest index ever allocated, plus one.
func (r *IdRegistry[T]) SizeRequired() int { return r.size }

// Reserve preallocates underlying storage for n additional ids, to avoid
// reallocation in hot subdivision loops.
func (r *IdRegistry[T]) Reserve(n int) {
	r.exists.growTo(r.size + n)
	if cap(r.deleted)-len(r.deleted) < n {
		grown := make([]T, len(r.deleted), len(r.deleted)+n)
		copy(grown, r.deleted)
		r.deleted = grown
	}
}

// ReserveMore preallocates for n ids beyond what is currently live,
// accounting for ids already sitting on the free list.
func (r *IdRegistry[T]) ReserveMore(n int) {
	r.Reserve(n + r.size - len(r.deleted))
}

// Create allocates a new id, reusing a recycled index if one is free.
func (r *IdRegistry[T]) Create() (T, error) {
	if n := len(r.deleted); n > 0 {
		out := r.deleted[n-1]
		r.deleted = r.deleted[:n-1]
		r.exists.set(int(out), true)
		return out, nil
	}

	if r.noAutoResize && r.size >= r.capacity {
		return 0, wrapf(ErrCapacityExceeded, "no-auto-resize registry capped at %d", r.capacity)
	}

	out := T(r.size)
	r.size++
	r.exists.growTo(r.size)
	r.exists.set(int(out), true)
	return out, nil
}

// Remove marks id as no longer live and returns its index to the free
// list for reuse by a future Create.
func (r *IdRegistry[T]) Remove(id T) {
	r.exists.set(int(id), false)
	r.deleted = append(r.deleted, id)
}

// Exists reports whether id currently denotes a live entry.
func (r *IdRegistry[T]) Exists(id T) bool {
	return r.exists.test(int(id))
}
