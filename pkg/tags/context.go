package tags

// ExecutionContext holds the three parallel counter arrays a Scheduler
// operates on: queuedCount per task, runningCount and incompleteCount per
// tag. It carries no behaviour of its own; outside this package the
// counters are read-only through the accessors below, and only Scheduler
// changes them.
type ExecutionContext struct {
	queuedCount     []uint32 // len == registry.TaskCount()
	runningCount    []uint32 // len == registry.TagCount()
	incompleteCount []uint32 // len == registry.TagCount()
}

// NewExecutionContext allocates a zero-initialised ExecutionContext sized
// for reg.
func NewExecutionContext(reg *Registry) *ExecutionContext {
	return &ExecutionContext{
		queuedCount:     make([]uint32, reg.TaskCount()),
		runningCount:    make([]uint32, reg.TagCount()),
		incompleteCount: make([]uint32, reg.TagCount()),
	}
}

// QueuedCount returns the current queued-request count for task.
func (c *ExecutionContext) QueuedCount(task TaskID) uint32 { return c.queuedCount[task] }

// RunningCount returns the number of currently-executing tasks carrying tag.
func (c *ExecutionContext) RunningCount(tag TagID) uint32 { return c.runningCount[tag] }

// IncompleteCount returns the number of queued-or-running tasks carrying
// tag. A tag is complete iff this is zero.
func (c *ExecutionContext) IncompleteCount(tag TagID) uint32 { return c.incompleteCount[tag] }
