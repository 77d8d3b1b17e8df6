package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"raypick/internal/engine"
)

// DefaultLoadTimeout bounds a single prefab load.
const DefaultLoadTimeout = 5 * time.Second

// Result is the outcome of one load task. Exactly one of Prefab and Err is set.
type Result struct {
	URL       string
	Prefab    *Prefab
	Err       error
	Requested time.Time
}

// Tasks runs loads in the background and hands finished results back to the
// frame loop through Drain. Loads never touch the scene themselves.
type Tasks struct {
	loader  Loader
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	results chan Result
	pending atomic.Int32
	wg      sync.WaitGroup
}

func NewTasks(loader Loader, timeout time.Duration) *Tasks {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tasks{
		loader:  loader,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 64),
	}
}

// Start begins loading url. The result shows up in a later Drain.
func (t *Tasks) Start(url string) {
	t.pending.Add(1)
	t.wg.Add(1)
	requested := time.Now()
	go func() {
		defer t.wg.Done()
		prefab, err := t.load(url)
		res := Result{URL: url, Prefab: prefab, Err: err, Requested: requested}
		select {
		case t.results <- res:
		case <-t.ctx.Done():
			t.pending.Add(-1)
		}
	}()
}

func (t *Tasks) load(url string) (*Prefab, error) {
	ctx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()

	type loaded struct {
		prefab *Prefab
		err    error
	}
	done := make(chan loaded, 1)
	go func() {
		p, err := t.loader.Load(ctx, url)
		done <- loaded{p, err}
	}()

	select {
	case l := <-done:
		switch {
		case l.err != nil && !errors.Is(l.err, engine.ErrAssetLoad):
			return nil, fmt.Errorf("load %s: %w: %w", url, engine.ErrAssetLoad, l.err)
		case l.err != nil:
			return nil, l.err
		case l.prefab == nil:
			return nil, fmt.Errorf("load %s: no prefab: %w", url, engine.ErrAssetLoad)
		}
		return l.prefab, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w: %w", url, engine.ErrAssetLoad, ctx.Err())
	}
}

// Drain returns every finished result without blocking.
func (t *Tasks) Drain() []Result {
	var out []Result
	for {
		select {
		case res := <-t.results:
			t.pending.Add(-1)
			out = append(out, res)
		default:
			return out
		}
	}
}

// Pending counts loads started but not yet drained.
func (t *Tasks) Pending() int {
	return int(t.pending.Load())
}

// Close cancels outstanding loads and waits for their goroutines.
func (t *Tasks) Close() {
	t.cancel()
	t.wg.Wait()
}
