package systems

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/spaghettifunk/graphpunk/engine/assets"
	"github.com/spaghettifunk/graphpunk/engine/assets/loaders"
	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/drawing"
	"github.com/spaghettifunk/graphpunk/engine/resources"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

type loadResult struct {
	path     string
	resource *loaders.Resource
	err      error
}

// AssetLoader reads assets on the job system. Finished loads wait in a queue
// until Sync moves them into the store on the frame goroutine.
type AssetLoader struct {
	assets *assets.AssetManager
	jobs   *JobSystem

	mu       sync.Mutex
	finished []loadResult
	pending  int
}

func NewAssetLoader(am *assets.AssetManager, js *JobSystem) *AssetLoader {
	return &AssetLoader{assets: am, jobs: js}
}

// Request schedules a load of path, relative to the asset root. It waits
// for room in the job queue.
func (l *AssetLoader) Request(ctx context.Context, path string) error {
	return l.request(ctx, path, l.jobs.Submit)
}

// TryRequest is Request without the wait: it returns ErrQueueFull when the
// job queue has no room.
func (l *AssetLoader) TryRequest(ctx context.Context, path string) error {
	return l.request(ctx, path, l.jobs.TrySubmit)
}

func (l *AssetLoader) request(ctx context.Context, path string, submit func(context.Context, JobTask) error) error {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	err := submit(ctx, JobTask{
		Name: "load " + path,
		OnStart: func(context.Context) (any, error) {
			return l.assets.Load(path)
		},
		OnComplete: func(result any) {
			l.finish(loadResult{path: path, resource: result.(*loaders.Resource)})
		},
		OnFailure: func(err error) {
			l.finish(loadResult{path: path, err: err})
		},
	})
	if err != nil {
		l.mu.Lock()
		l.pending--
		l.mu.Unlock()
	}
	return err
}

func (l *AssetLoader) finish(r loadResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending--
	l.finished = append(l.finished, r)
}

// Pending counts loads that have not reached Sync yet.
func (l *AssetLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pending + len(l.finished)
}

// Sync stores every finished load under its path: the *loaders.Resource
// itself, plus the decoded value under its own type (*shader.Shader,
// image.Image, drawing.Font or string). It returns the stored paths and the
// joined errors of the loads that failed.
func (l *AssetLoader) Sync(store *resources.Store) ([]string, error) {
	l.mu.Lock()
	finished := l.finished
	l.finished = nil
	l.mu.Unlock()

	var errs []error
	var stored []string
	for _, r := range finished {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.path, r.err))
			continue
		}
		resources.Add(store, r.path, r.resource)
		switch data := r.resource.Data.(type) {
		case *shader.Shader:
			resources.Add(store, r.path, data)
		case image.Image:
			resources.Add[image.Image](store, r.path, data)
		case drawing.Font:
			resources.Add[drawing.Font](store, r.path, data)
		case string:
			resources.Add(store, r.path, data)
		default:
			core.LogWarn("asset %s has no store type for %T", r.path, data)
		}
		stored = append(stored, r.path)
	}
	return stored, errors.Join(errs...)
}
