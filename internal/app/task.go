package app

// Task is a handle for a long-running operation started by a Session. It
// completes exactly once, with either a value or an error.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func startTask[T any](fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.value, t.err = fn()
	}()
	return t
}

// Done is closed when the task has completed.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Result blocks until the task completes and returns its outcome.
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.value, t.err
}
