package sim

import (
	"context"
	"fmt"
	"sync"
)

// Job is one independent replay. Build must return a fresh runner with its
// own driver; jobs run concurrently.
type Job struct {
	Name   string
	Build  func() (*Runner, error)
	Config Config
}

// RunBatch runs every job on its own goroutine and returns results in job
// order. The first failure is returned after all jobs finish.
func RunBatch(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := jobs[idx]
			r, err := job.Build()
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
				return
			}
			results[idx], errs[idx] = r.Run(ctx, job.Config)
			if errs[idx] != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, errs[idx])
			}
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
