package executor

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Task is a unit of work with a human readable identifier.
type Task interface {
	ID() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function into a Task.
type TaskFunc struct {
	Name string
	Fn   func(ctx context.Context) error
}

func (t TaskFunc) ID() string {
	return t.Name
}

func (t TaskFunc) Run(ctx context.Context) error {
	return t.Fn(ctx)
}

type Sequential struct{}

// RunSingleTask runs a task, turning panics into errors so a single broken
// task cannot take the other workers down.
func (s Sequential) RunSingleTask(ctx context.Context, task Task) (err error) {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "task '%s' was not started", task.ID())
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task '%s' panicked: %v", task.ID(), r)
		}
	}()

	return task.Run(ctx)
}
