package rpcclient

import "sync"

// executor is the fixed worker-goroutine pool that runs completion
// delivery (fulfilling a synchronous Call's channel, invoking an async
// callback) off the reactor goroutine, ported in spirit from the
// source's condition-variable task loop as a Go channel + WaitGroup:
// workers pop a task, run it, and loop; a panicking callback is
// recovered and swallowed, matching the source's "exceptions thrown by
// user callbacks are swallowed".
type executor struct {
	tasks chan func()
	wg    sync.WaitGroup
}

func newExecutor(workers int) *executor {
	if workers <= 0 {
		workers = defaultThreadPoolSize
	}
	e := &executor{tasks: make(chan func(), workers*4)}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.worker()
	}
	return e
}

func (e *executor) worker() {
	defer e.wg.Done()
	for task := range e.tasks {
		runTask(task)
	}
}

func runTask(task func()) {
	defer func() { _ = recover() }()
	task()
}

func (e *executor) submit(task func()) {
	e.tasks <- task
}

// stop closes the task queue and waits for every worker to drain it.
// Callers must not submit after calling stop.
func (e *executor) stop() {
	close(e.tasks)
	e.wg.Wait()
}
