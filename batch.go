package quantbin

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// batchChunk is the number of items a worker handles per slot acquisition.
const batchChunk = 256

// InsertAll implements Index.
//
// Every bin is validated before anything is stored. Bins smaller than
// minSize go to the residual list; the rest are inserted by up to
// WithWorkers goroutines. Cancelling ctx stops the load between chunks and
// leaves the bins inserted so far in place.
func (x *base) InsertAll(ctx context.Context, bins []Bin, minSize int64) error {
	start := time.Now()

	for _, b := range bins {
		if err := ValidateBin(b); err != nil {
			return err
		}
	}

	large := make([]Bin, 0, len(bins))
	var small []Bin
	for _, b := range bins {
		if b.Size() < minSize {
			small = append(small, b)
		} else {
			large = append(large, b)
		}
	}
	x.residual.add(small...)

	var done atomic.Int64
	progress := rate.Sometimes{Interval: time.Second}
	total := int64(len(large))

	err := x.parallel(ctx, len(large), func(lo, hi int) error {
		for _, b := range large[lo:hi] {
			if _, _, err := x.insert(b); err != nil {
				return err
			}
		}
		n := done.Add(int64(hi - lo))
		progress.Do(func() { x.logger.LogProgress(ctx, "insert", n, total) })
		return nil
	})

	x.opts.metricsCollector.RecordBatchInsert(len(bins), len(small), time.Since(start), err)
	x.logger.LogBatchInsert(ctx, len(bins), len(small), err)
	return err
}

// QueryAll implements Index. Matches are returned in query order. Each
// worker chunk draws its own Oracle from newOracle.
func (x *base) QueryAll(ctx context.Context, queries []Bin, minSizeToCompare int64, radius int, newOracle func() Oracle) ([]Match, error) {
	if newOracle == nil {
		return nil, ErrNilOracle
	}

	out := make([]Match, len(queries))
	var done atomic.Int64
	progress := rate.Sometimes{Interval: time.Second}
	total := int64(len(queries))

	err := x.parallel(ctx, len(queries), func(lo, hi int) error {
		oracle := newOracle()
		for i := lo; i < hi; i++ {
			m, err := x.Query(queries[i], x.q.Key(queries[i]), minSizeToCompare, radius, oracle)
			if err != nil {
				return err
			}
			out[i] = m
		}
		n := done.Add(int64(hi - lo))
		progress.Do(func() { x.logger.LogProgress(ctx, "query", n, total) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parallel splits [0, n) into chunks and runs fn on them, bounded by the
// worker slots of the resource controller.
func (x *base) parallel(ctx context.Context, n int, fn func(lo, hi int) error) error {
	g, gctx := errgroup.WithContext(ctx)

	for lo := 0; lo < n; lo += batchChunk {
		hi := min(lo+batchChunk, n)
		if err := x.rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer x.rc.ReleaseWorker()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
