package tags

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"starforge/internal/obslog"
)

// Scheduler pairs an immutable *Registry with its one ExecutionContext and
// exposes the enqueue/list-available/start/finish protocol. All four
// operations are synchronous and return in bounded time; Scheduler
// serializes access to its own state with a mutex, since an outer caller
// is free to dispatch task bodies from multiple goroutines even though the
// scheduler's bookkeeping itself must not be concurrently mutated.
//
// StrictDebugChecks, enabled by default, turns contract violations (e.g.
// Start on a task list-available never reported) into panics rather than
// silently corrupting counters, since scheduler misuse of this kind is a
// programmer bug. Set it to false to skip the checks in a release build.
type Scheduler struct {
	id   uuid.UUID
	reg  *Registry
	exec *ExecutionContext

	mu sync.Mutex

	// MaxQueuedCount is a soft limit: Enqueue still coalesces past it, but
	// logs a Debug record once queuedCount for a task exceeds it. Zero means
	// unlimited.
	MaxQueuedCount uint32

	StrictDebugChecks bool

	lastAvailable Bits // most recent ListAvailable result, used by debug checks

	// running tracks, per task, whether a Start has been issued without a
	// matching Finish yet. It lives outside ExecutionContext: a task's
	// queuedCount/runningCount/incompleteCount alone can't distinguish "not
	// yet started" from "currently executing", but Enqueue needs exactly
	// that distinction to decide whether a repeat enqueue is a no-op or a
	// legitimate re-queue of a task that is mid-flight.
	running Bits
}

// New creates a Scheduler over reg with a fresh, zeroed ExecutionContext.
func New(reg *Registry) *Scheduler {
	return &Scheduler{
		id:                uuid.New(),
		reg:               reg,
		exec:              NewExecutionContext(reg),
		StrictDebugChecks: true,
		running:           NewBits(reg.TaskCount()),
	}
}

// Registry returns the scheduler's immutable tag/task definition.
func (s *Scheduler) Registry() *Registry { return s.reg }

// Context returns the scheduler's mutable execution counters.
func (s *Scheduler) Context() *ExecutionContext { return s.exec }

func (s *Scheduler) log() *slog.Logger {
	return obslog.With("component", "tags.Scheduler", "scheduler_id", s.id.String())
}

// NewQuery allocates a zeroed Bits sized for queries/outputs against reg.
func NewQuery(reg *Registry) Bits {
	return make(Bits, reg.TagIntsPerTask())
}

// Enqueue marks every registered task whose tag-row intersects query
// nonemptily as queued: queuedCount is incremented and incompleteCount is
// bumped for every tag bit the task carries. A task already queued but not
// yet started is untouched (enqueueing the same query twice in a row
// without an intervening Start is idempotent after the first call), but a
// task that is currently running is re-queued: its queuedCount goes to 2,
// so the subsequent Finish only drains one run and the task becomes
// available again for a second Start.
func (s *Scheduler) Enqueue(query Bits) error {
	if len(query) != s.reg.tagIntsPerTask {
		return wrapf(ErrInvalidQuerySize, "want %d words, got %d", s.reg.tagIntsPerTask, len(query))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for task := 0; task < s.reg.taskCount; task++ {
		if s.exec.queuedCount[task] != 0 && !s.running.Test(task) {
			continue
		}
		row := s.reg.TaskRow(TaskID(task))
		if !row.IntersectsAny(query) {
			continue
		}

		s.exec.queuedCount[task]++
		row.Ones(func(tag int) {
			s.exec.incompleteCount[tag]++
		})

		if s.MaxQueuedCount > 0 && s.exec.queuedCount[task] > s.MaxQueuedCount {
			s.log().Debug("queued count exceeds soft limit", "task", task, "queued", s.exec.queuedCount[task])
		}
	}
	return nil
}

// ListAvailable fills out with the set of tasks that are both queued and
// unmasked: a per-tag mask starts all-ones, loses a bit for every tag with
// an incomplete dependency, and a task is available iff it is queued and
// its tag-row is a subset of the resulting mask.
func (s *Scheduler) ListAvailable(out Bits) error {
	if len(out) != s.reg.tagIntsPerTask {
		return wrapf(ErrInvalidOutSize, "want %d words, got %d", s.reg.tagIntsPerTask, len(out))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mask := make(Bits, s.reg.tagIntsPerTask)
	mask.Fill()

	for tag := 0; tag < s.reg.tagCount; tag++ {
		for _, dep := range s.reg.TagDepends(TagID(tag)) {
			if dep == TagIDNull {
				break
			}
			if s.exec.incompleteCount[dep] != 0 {
				mask.Clear(tag)
				break
			}
		}
	}

	out.Zero()
	for task := 0; task < s.reg.taskCount; task++ {
		if s.exec.queuedCount[task] == 0 {
			continue
		}
		row := s.reg.TaskRow(TaskID(task))
		if row.IsSubsetOf(mask) {
			out.Set(task)
		}
	}

	if s.StrictDebugChecks {
		s.lastAvailable = out.Clone()
	}
	return nil
}

// Start marks task as running: every tag in the task's row gets
// runningCount incremented. Must be preceded by a ListAvailable call that
// reported task as available; with StrictDebugChecks this is verified and
// violations panic rather than corrupting the counters.
func (s *Scheduler) Start(task TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.StrictDebugChecks {
		if s.lastAvailable == nil || !s.lastAvailable.Test(int(task)) {
			panic("tags: Start called on a task not reported available by the most recent ListAvailable")
		}
	}

	s.reg.TaskRow(task).Ones(func(tag int) {
		s.exec.runningCount[tag]++
	})
	s.running.Set(int(task))
	s.log().Debug("task started", "task", uint32(task))
}

// Finish marks task as complete: queuedCount for task is decremented by
// one, and runningCount/incompleteCount are decremented for every tag the
// task carries. When a tag's incompleteCount reaches zero it becomes a
// satisfied dependency for the next ListAvailable.
func (s *Scheduler) Finish(task TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.StrictDebugChecks && s.exec.queuedCount[task] == 0 {
		panic("tags: Finish called on a task with queuedCount already zero")
	}

	s.exec.queuedCount[task]--
	s.reg.TaskRow(task).Ones(func(tag int) {
		if s.StrictDebugChecks && s.exec.runningCount[tag] == 0 {
			panic("tags: Finish underflowed runningCount for a tag")
		}
		s.exec.runningCount[tag]--
		s.exec.incompleteCount[tag]--
	})
	s.running.Clear(int(task))
	s.log().Debug("task finished", "task", uint32(task))
}
