package workers

import (
	"context"
	"sync"
)

// DefaultCount is the pool size used when configuration does not say
// otherwise. Provider pacing happens in the gateway, so more workers only
// help with local work (fingerprinting, file IO).
const DefaultCount = 4

// Run fans jobs out to size workers and fans their results back into a
// single collector. Results arrive in completion order. A canceled context
// stops workers from picking up further jobs; results already produced are
// still returned.
func Run[J, R any](ctx context.Context, size int, jobs []J, work func(context.Context, J) R) []R {
	if size <= 0 {
		size = DefaultCount
	}
	if len(jobs) < size {
		size = len(jobs)
	}
	if size == 0 {
		return nil
	}

	jobCh := make(chan J)
	resultCh := make(chan R)

	var wg sync.WaitGroup
	wg.Add(size)
	for i := 0; i < size; i++ {
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resultCh <- work(ctx, job)
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobCh <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]R, 0, len(jobs))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}
