package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	colors = []color.Attribute{
		color.FgBlue,
		color.FgMagenta,
		color.FgCyan,
		color.FgWhite,
		color.FgHiMagenta,
		color.FgHiBlue,
		color.FgHiCyan,
	}
	faint = color.New(color.Faint).SprintFunc()
)

type contextKey int

const (
	KeyPrinter contextKey = iota
	ContextLogger

	timeFormat = "2006-01-02 15:04:05"
)

// Result is the outcome of one task.
type Result struct {
	Task     Task
	Error    error
	Duration time.Duration
}

type Concurrent struct {
	workerCount int
	workers     []*worker
}

func NewConcurrent(logger *zap.SugaredLogger, workerCount int, out io.Writer) *Concurrent {
	if workerCount < 1 {
		workerCount = 1
	}
	if out == nil {
		out = os.Stdout
	}

	var printLock sync.Mutex

	workers := make([]*worker, workerCount)
	for i := range workerCount {
		workers[i] = &worker{
			id:        fmt.Sprintf("worker-%d", i),
			executor:  &Sequential{},
			logger:    logger,
			printer:   color.New(colors[i%len(colors)]),
			printLock: &printLock,
			out:       out,
		}
	}

	return &Concurrent{
		workerCount: workerCount,
		workers:     workers,
	}
}

// Run executes every task and returns the results in the order of the input.
func (c Concurrent) Run(ctx context.Context, tasks []Task) []*Result {
	input := make(chan indexedTask)
	results := make(chan indexedResult, len(tasks))

	var wg sync.WaitGroup
	for i := range c.workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.workers[i].run(ctx, input, results)
		}()
	}

	for i, t := range tasks {
		input <- indexedTask{index: i, task: t}
	}
	close(input)

	wg.Wait()
	close(results)

	ordered := make([]*Result, len(tasks))
	for r := range results {
		ordered[r.index] = r.result
	}

	return ordered
}

type indexedTask struct {
	index int
	task  Task
}

type indexedResult struct {
	index  int
	result *Result
}

type worker struct {
	id        string
	executor  *Sequential
	logger    *zap.SugaredLogger
	printer   *color.Color
	printLock *sync.Mutex
	out       io.Writer
}

func (w worker) run(ctx context.Context, taskChannel <-chan indexedTask, results chan<- indexedResult) {
	for it := range taskChannel {
		task := it.task

		w.printLock.Lock()
		w.printer.Fprintf(w.out, "[%s] Starting: %s\n", time.Now().Format(timeFormat), task.ID())
		w.printLock.Unlock()

		start := time.Now()

		printer := &workerWriter{
			w:           w.out,
			task:        task.ID(),
			sprintfFunc: w.printer.SprintfFunc(),
			lock:        w.printLock,
		}

		executionCtx := context.WithValue(ctx, KeyPrinter, printer)
		executionCtx = context.WithValue(executionCtx, ContextLogger, w.logger)
		err := w.executor.RunSingleTask(executionCtx, task)

		duration := time.Since(start)
		durationString := fmt.Sprintf("(%s)", duration.Truncate(time.Millisecond).String())

		res := "Finished"
		if err != nil {
			res = "Failed"
			w.logger.Debugw("task failed", "task", task.ID(), "worker", w.id, "error", err)
		}

		w.printLock.Lock()
		w.printer.Fprintf(w.out, "[%s] %s: %s %s\n", time.Now().Format(timeFormat), res, task.ID(), faint(durationString))
		w.printLock.Unlock()

		results <- indexedResult{
			index:  it.index,
			result: &Result{Task: task, Error: err, Duration: duration},
		}
	}
}

// PrinterFromContext returns the task scoped writer, or stdout when the
// context was not created by a worker.
func PrinterFromContext(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(KeyPrinter).(io.Writer); ok {
		return w
	}

	return os.Stdout
}

type workerWriter struct {
	w           io.Writer
	task        string
	sprintfFunc func(format string, a ...interface{}) string
	lock        *sync.Mutex
}

func (w *workerWriter) Write(p []byte) (int, error) {
	formatted := w.sprintfFunc("[%s] [%s] %s", time.Now().Format(timeFormat), w.task, string(p))

	w.lock.Lock()
	defer w.lock.Unlock()

	n, err := w.w.Write([]byte(formatted))
	if err != nil {
		return n, err
	}
	if n != len(formatted) {
		return n, io.ErrShortWrite
	}
	return len(p), nil
}
