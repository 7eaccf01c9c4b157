// Package tags implements a tag-driven task scheduler: a declarative
// execution engine in which units of work ("tasks") are labelled with sets
// of "tags". Tags express both what a task does (callers can query "run
// everything tagged physics_step") and dependency structure between phases
// (tag X may not start until tag Y's remaining work reaches zero).
//
// The scheduler itself never executes task bodies. It only tracks, per
// step, which queued tasks are eligible to start, and lets an external
// caller dispatch and finish them in any order consistent with
// dependencies.
//
// # Design
//
// A Registry is built once, at configuration time, from a fixed tag count
// and a fixed task count; tag dependency lists and task tag-rows are frozen
// after Build. A Scheduler pairs a *Registry with a mutable
// ExecutionContext (three parallel counters: queued/running/incomplete) and
// exposes Enqueue / ListAvailable / Start / Finish.
//
// Tag-row membership is stored as one machine word per 64 tags
// (TagIntsPerTask words per task row), so availability checks reduce to a
// handful of word-level AND/compare operations — see bits.go.
package tags
