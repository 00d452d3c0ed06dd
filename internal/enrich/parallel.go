package enrich

import (
	"context"
	"runtime"
	"sync"
)

// permutationBatch is the number of permutations a worker runs between
// cancellation checks.
const permutationBatch = 64

// setOutcome is the evaluation of one gene set: either a scored result or a
// skipped entry. seq is the set's catalog position, used to reassemble
// deterministic output regardless of worker completion order.
type setOutcome struct {
	seq     int
	result  *EnrichmentResult
	skipped *SkippedSet
}

// parallelSets evaluates every gene set using a pool of workers and returns
// the outcomes in catalog order. Cancellation is checked before each
// evaluation; a cancelled run returns ctx.Err() and no partial outcomes.
// If workers is 0, runtime.NumCPU() is used.
func parallelSets(ctx context.Context, sets []GeneSet, workers int, eval func(context.Context, GeneSet) setOutcome) ([]setOutcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int)
	results := make(chan setOutcome, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				o := eval(ctx, sets[idx])
				o.seq = idx
				results <- o
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range sets {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]setOutcome, len(sets))
	for o := range results {
		out[o.seq] = o
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parallelPermutations runs count independent permutations across a worker
// pool and returns their scores indexed by permutation number. Each
// permutation derives its own seed from its index, so the output is
// identical for any worker count. Cancellation is checked between batches.
func parallelPermutations(ctx context.Context, count, workers int, run func(i int) float64) ([]float64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	scores := make([]float64, count)
	batches := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for start := range batches {
				select {
				case <-ctx.Done():
					return
				default:
				}
				end := start + permutationBatch
				if end > count {
					end = count
				}
				for i := start; i < end; i++ {
					scores[i] = run(i)
				}
			}
		}()
	}

	go func() {
		defer close(batches)
		for start := 0; start < count; start += permutationBatch {
			select {
			case batches <- start:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}
