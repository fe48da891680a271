// Package game implements the Game process's simulation: the executor
// (spec §5's "strand"), the player/monster tables, the Zone index, the
// tick scheduler, and the S2S server that accepts Gateway's one link
// (spec §4.4, §4.7, §4.8).
package game

import "sync"

// Executor is the single-writer serialised task queue Game runs its
// entire mutable state through — spec §5's "game executor" / "strand".
// Every S2S handler, every tick, and every AI attack callback posts a
// closure here; nothing else may touch the player/monster tables or the
// Zone (spec §3 invariant 6).
//
// There is no teacher analogue to adapt: la2go's own game state is
// sync.Map/atomics throughout, and spec §9 explicitly calls out that the
// core replaces the original's global mutex with this serialized-queue
// pattern instead. This is written directly from the spec's contract, in
// the small-blocking-channel shape idiomatic to Go (as opposed to
// boost::asio's io_context::strand in the original C++ source).
type Executor struct {
	tasks  chan func()
	done   chan struct{}
	closed sync.Once
}

// NewExecutor starts an executor goroutine draining a task queue of the
// given buffer size.
func NewExecutor(queueSize int) *Executor {
	e := &Executor{
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Executor) run() {
	defer close(e.done)
	for task := range e.tasks {
		task()
	}
}

// Post enqueues fn to run on the executor goroutine, preserving enqueue
// order (spec §5: "the order of events is the order they were enqueued").
// Post is safe to call from any goroutine.
func (e *Executor) Post(fn func()) {
	e.tasks <- fn
}

// Close stops accepting new tasks and blocks until all already-enqueued
// tasks have drained (spec §5: "the simulation executor drains in-flight
// tasks then the reactor stops").
func (e *Executor) Close() {
	e.closed.Do(func() {
		close(e.tasks)
	})
	<-e.done
}
