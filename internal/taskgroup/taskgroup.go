package taskgroup

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sysreport-dev/sysreport/internal/logging"
)

var log = logging.L("taskgroup")

// Group runs a fixed set of named tasks concurrently and joins all of them.
// There is no queue, no cancellation and no ordering between tasks; Wait is
// the single barrier. A panicking task is recovered and reported as an error
// result so one task can never take down its siblings or the process.
type Group struct {
	wg sync.WaitGroup

	mu      sync.Mutex
	results map[string]error
}

// New creates an empty group.
func New() *Group {
	return &Group{results: make(map[string]error)}
}

// Go starts fn in its own goroutine. The name keys the task's result and
// must be unique within the group.
func (g *Group) Go(name string, fn func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		err := g.run(name, fn)

		g.mu.Lock()
		g.results[name] = err
		g.mu.Unlock()
	}()
}

// Wait blocks until every task started with Go has finished, then returns
// the per-task results. The join is unconditional: the slowest task gates
// the return and no task is cancelled.
func (g *Group) Wait() map[string]error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]error, len(g.results))
	for name, err := range g.results {
		out[name] = err
	}
	return out
}

func (g *Group) run(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("task panicked", "task", name, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("task %s panicked: %v", name, r)
		}
	}()
	return fn()
}
