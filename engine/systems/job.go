package systems

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/spaghettifunk/graphpunk/engine/core"
)

// JobTask is a unit of background work. OnStart runs on a worker goroutine,
// and so do OnComplete and OnFailure: they must not touch the resource
// store directly.
type JobTask struct {
	Name       string
	OnStart    func(ctx context.Context) (any, error)
	OnComplete func(result any)
	OnFailure  func(err error)
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan queuedJob
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type queuedJob struct {
	ctx  context.Context
	task JobTask
}

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system is shut down")
	ErrQueueFull           = errors.New("job queue is full")
)

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan queuedJob, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job queuedJob) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("job %s panicked: %v", job.task.Name, rec)
			core.LogError("%v\n%s", err, debug.Stack())
			if job.task.OnFailure != nil {
				job.task.OnFailure(err)
			}
		}
	}()

	if err := job.ctx.Err(); err != nil {
		if job.task.OnFailure != nil {
			job.task.OnFailure(err)
		}
		return
	}

	result, err := job.task.OnStart(job.ctx)
	if err != nil {
		core.LogError("job %s: %v", job.task.Name, err)
		if job.task.OnFailure != nil {
			job.task.OnFailure(err)
		}
		return
	}
	if job.task.OnComplete != nil {
		job.task.OnComplete(result)
	}
}

// Submit queues the task, waiting for room in the queue until ctx is done.
// The task later sees the same ctx.
func (js *JobSystem) Submit(ctx context.Context, jt JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()

	if js.closed {
		return ErrJobSystemClosed
	}
	select {
	case js.jobQueue <- queuedJob{ctx: ctx, task: jt}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues the task only if the queue has room.
func (js *JobSystem) TrySubmit(ctx context.Context, jt JobTask) error {
	js.mu.RLock()
	defer js.mu.RUnlock()

	if js.closed {
		return ErrJobSystemClosed
	}
	select {
	case js.jobQueue <- queuedJob{ctx: ctx, task: jt}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting work and waits for queued jobs to finish.
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}
