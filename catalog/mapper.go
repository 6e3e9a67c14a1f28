package catalog

import (
	"context"
	"runtime"
)

// DefaultBatchSize is the number of manifest records mapped between yields.
const DefaultBatchSize = 800

// MapOptions configures Map.
type MapOptions struct {
	BatchSize  int
	OnProgress func(done, total int) // called after every batch, including the last
}

// Map normalizes raw manifest records into catalog entries in consecutive batches,
// yielding to the scheduler and checking ctx between batches.
// The returned catalog has one entry per record, ids 0..len(raw)-1 in input order.
// A cancelled ctx aborts the pass and no catalog is returned.
func Map(ctx context.Context, raw []RawEntry, options MapOptions) ([]Entry, error) {
	batchSize := options.BatchSize
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	entries := make([]Entry, 0, len(raw))
	done := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(done+batchSize, len(raw))
		for i := done; i < end; i++ {
			entries = append(entries, NewEntry(i, raw[i]))
		}
		done = end

		if options.OnProgress != nil {
			options.OnProgress(done, len(raw))
		}
		if done >= len(raw) {
			return entries, nil
		}
		runtime.Gosched()
	}
}
