package workspace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// progressInterval is how often a running pool reports progress.
const progressInterval = 2 * time.Second

// runPool calls fn for every index in [0, n) on workers goroutines. It stops
// handing out work after the first error or when ctx is cancelled, and
// returns that error.
func runPool(ctx context.Context, log *zap.Logger, stage string, workers, n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		processed atomic.Int64
		once      sync.Once
		firstErr  error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	start := time.Now()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				log.Info("progress", zap.String("stage", stage),
					zap.Int64("done", processed.Load()), zap.Int("total", n))
			}
		}
	}()

	items := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range items {
				if ctx.Err() != nil {
					continue
				}
				if err := fn(i); err != nil {
					fail(err)
					continue
				}
				processed.Add(1)
			}
		}()
	}

send:
	for i := 0; i < n; i++ {
		select {
		case items <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(items)
	wg.Wait()
	close(done)

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Debug("stage finished", zap.String("stage", stage),
		zap.Int("items", n), zap.Duration("elapsed", time.Since(start)))
	return nil
}
