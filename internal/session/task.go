package session

import "context"

// Task is the handle of one in-flight generation.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{cancel: cancel, done: make(chan struct{})}
}

func (t *Task) finish(err error) {
	t.err = err
	t.cancel()
	close(t.done)
}

// Cancel aborts the request; the task still reports its terminal outcome.
func (t *Task) Cancel() { t.cancel() }

func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task terminates and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}
