package tags

// TagID is the opaque, dense index of a registered tag.
type TagID uint32

// TaskID is the opaque, dense index of a registered task.
type TaskID uint32

// TagIDNull is the padding sentinel used in the tag-depends table: a tag
// with fewer dependencies than tagDependsPerTag pads its remaining depend
// slots with this value.
const TagIDNull TagID = TagID(^uint32(0))

// Registry is the immutable, fully-sized tag/task definition a Scheduler is
// built from: tag count, a fixed-width tag-depends table, task count, and a
// dense task-tag bit-array.
//
// A Registry is built once via Builder.Build and never mutated afterwards;
// it is safe for concurrent read access from multiple Schedulers, though in
// practice each Scheduler owns exactly one ExecutionContext.
type Registry struct {
	tagCount         int
	tagDependsPerTag int
	tagDepends       []TagID // flat: tagCount * tagDependsPerTag

	taskCount      int
	tagIntsPerTask int
	taskTags       []uint64 // flat: taskCount * tagIntsPerTask
}

// TagCount returns the number of registered tags.
func (r *Registry) TagCount() int { return r.tagCount }

// TaskCount returns the number of registered tasks.
func (r *Registry) TaskCount() int { return r.taskCount }

// TagIntsPerTask returns the number of 64-bit words used to store one
// task's tag-row (and hence the required length of any Query or TaskSet
// passed to Enqueue/ListAvailable).
func (r *Registry) TagIntsPerTask() int { return r.tagIntsPerTask }

// TaskRow returns the tag bitset carried by task, as a read-only view into
// the registry's backing storage. Callers must not mutate the result.
func (r *Registry) TaskRow(task TaskID) Bits {
	off := int(task) * r.tagIntsPerTask
	return Bits(r.taskTags[off : off+r.tagIntsPerTask])
}

// TagDepends returns the (possibly TagIDNull-padded) list of tags that must
// be complete before tag may be considered satisfied.
func (r *Registry) TagDepends(tag TagID) []TagID {
	off := int(tag) * r.tagDependsPerTag
	return r.tagDepends[off : off+r.tagDependsPerTag]
}

// Builder incrementally assembles a Registry. Tags and tasks are added in
// any order the caller likes; bitset packing and depends-table padding are
// only finalized at Build, once every tag and task is known.
type Builder struct {
	tagDepends [][]TagID
	taskTags   [][]TagID
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddTag registers a new tag with the given dependency tags and returns its
// TagID. Forward references (depending on a tag not yet added) are
// rejected, since dependencies are themselves TagIDs already handed out by
// a prior AddTag call.
func (b *Builder) AddTag(depends ...TagID) (TagID, error) {
	id := TagID(len(b.tagDepends))
	for _, d := range depends {
		if int(d) >= len(b.tagDepends) {
			return 0, wrapf(ErrUnknownTag, "tag %d depends on not-yet-registered tag %d", id, d)
		}
	}
	cp := make([]TagID, len(depends))
	copy(cp, depends)
	b.tagDepends = append(b.tagDepends, cp)
	return id, nil
}

// AddTask registers a new task carrying the given tags and returns its
// TaskID.
func (b *Builder) AddTask(taskTags ...TagID) (TaskID, error) {
	id := TaskID(len(b.taskTags))
	for _, t := range taskTags {
		if int(t) >= len(b.tagDepends) {
			return 0, wrapf(ErrUnknownTag, "task %d carries unregistered tag %d", id, t)
		}
	}
	cp := make([]TagID, len(taskTags))
	copy(cp, taskTags)
	b.taskTags = append(b.taskTags, cp)
	return id, nil
}

// Build freezes the Builder into a Registry: it computes tagIntsPerTask
// from the final tag count, pads the depends table to a uniform width with
// TagIDNull, and packs every task's tag list into its dense bit-row.
func (b *Builder) Build() *Registry {
	tagCount := len(b.tagDepends)
	taskCount := len(b.taskTags)
	tagIntsPerTask := wordsFor(tagCount)
	if tagIntsPerTask == 0 {
		tagIntsPerTask = 1 // keep row length well-defined even with zero tags
	}

	tagDependsPerTag := 0
	for _, d := range b.tagDepends {
		if len(d) > tagDependsPerTag {
			tagDependsPerTag = len(d)
		}
	}

	flatDepends := make([]TagID, tagCount*tagDependsPerTag)
	for i := range flatDepends {
		flatDepends[i] = TagIDNull
	}
	for tag, deps := range b.tagDepends {
		off := tag * tagDependsPerTag
		copy(flatDepends[off:off+len(deps)], deps)
	}

	flatTaskTags := make([]uint64, taskCount*tagIntsPerTask)
	for task, taskTagList := range b.taskTags {
		row := Bits(flatTaskTags[task*tagIntsPerTask : (task+1)*tagIntsPerTask])
		for _, t := range taskTagList {
			row.Set(int(t))
		}
	}

	return &Registry{
		tagCount:         tagCount,
		tagDependsPerTag: tagDependsPerTag,
		tagDepends:       flatDepends,
		taskCount:        taskCount,
		tagIntsPerTask:   tagIntsPerTask,
		taskTags:         flatTaskTags,
	}
}
