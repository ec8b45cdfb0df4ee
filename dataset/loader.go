package dataset

import (
	"context"
	"math/rand"
	"sync"

	"github.com/ravaghi/PDT/fu"
	"go-ml.dev/pkg/zorros"
)

const (
	DefaultWorkers  = 4
	defaultPrefetch = 8
)

// Option configures a DataLoader.
type Option func(*DataLoader)

// WithWorkers sets the number of goroutines collating batches in parallel.
func WithWorkers(n int) Option { return func(l *DataLoader) { l.workers = n } }

// WithSeed fixes the batch shuffling order of variable-length datasets.
func WithSeed(seed int64) Option { return func(l *DataLoader) { l.seed = seed } }

// WithVarLen toggles variable-length mode (bin completion + batch
// shuffling at construction). It is on by default.
func WithVarLen(v bool) Option { return func(l *DataLoader) { l.varLen = v } }

// WithPrefetch bounds the number of collated batches queued ahead of
// the consumer.
func WithPrefetch(n int) Option { return func(l *DataLoader) { l.prefetch = n } }

/*
DataLoader produces packed batches from a dataset. Batches are collated
by a pool of workers and handed to the consumer in order through a
bounded queue, so batch preparation overlaps model computation without
unbounded buffering. One full traversal of Batches is one epoch; the
loader is restartable, every Batches call starts a fresh traversal over
the same ordering.
*/
type DataLoader struct {
	src       *DatasetCreator
	batchSize int
	workers   int
	prefetch  int
	varLen    bool
	seed      int64
}

/*
Open reads the persisted table at path and wraps it in a DataLoader in
variable-length mode: bins are completed to full batches and the batch
order is randomized once. No further shuffling happens during
iteration and no incomplete final batch is dropped.
*/
func Open(path string, batchSize int, opts ...Option) (*DataLoader, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	return FromTable(t, batchSize, opts...)
}

// FromTable builds a DataLoader over an in-memory table.
func FromTable(t Table, batchSize int, opts ...Option) (*DataLoader, error) {
	l := &DataLoader{batchSize: batchSize, varLen: true}
	for _, o := range opts {
		o(l)
	}
	l.workers = fu.Fnzi(l.workers, DefaultWorkers)
	l.prefetch = fu.Fnzi(l.prefetch, defaultPrefetch)
	var rng *rand.Rand
	if l.seed != 0 {
		rng = rand.New(rand.NewSource(l.seed))
	}
	src, err := NewDatasetCreator(t, batchSize, l.varLen, rng)
	if err != nil {
		return nil, err
	}
	l.src = src
	return l, nil
}

// Len returns the number of batches in one epoch.
func (l *DataLoader) Len() int {
	return (l.src.Len() + l.batchSize - 1) / l.batchSize
}

/*
Batches starts one epoch. The batch channel is closed when the epoch is
complete; the error channel then carries the first error encountered,
if any. Cancelling ctx stops the pipeline.
*/
func (l *DataLoader) Batches(ctx context.Context) (<-chan Batch, <-chan error) {
	out := make(chan Batch, l.prefetch)
	errc := make(chan error, 1)
	ctx, cancel := context.WithCancel(ctx)

	n := l.Len()
	jobs := make(chan int, l.workers)
	results := make(chan indexedBatch, l.workers)

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				b, err := l.collate(i)
				select {
				case <-ctx.Done():
					return
				case results <- indexedBatch{idx: i, batch: b, err: err}:
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Workers finish out of order; re-emit in index order so an epoch
	// always traverses the dataset the same way.
	go func() {
		defer cancel()
		defer close(errc)
		defer close(out)
		pending := map[int]indexedBatch{}
		next := 0
		for r := range results {
			pending[r.idx] = r
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if r.err != nil {
					errc <- r.err
					return
				}
				select {
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				case out <- r.batch:
				}
				next++
			}
		}
		if err := ctx.Err(); err != nil && next < n {
			errc <- err
		}
	}()

	return out, errc
}

type indexedBatch struct {
	idx   int
	batch Batch
	err   error
}

func (l *DataLoader) collate(i int) (Batch, error) {
	lo := i * l.batchSize
	hi := fu.Mini(lo+l.batchSize, l.src.Len())
	recs := make([]Record, 0, hi-lo)
	for j := lo; j < hi; j++ {
		r, err := l.src.At(j)
		if err != nil {
			return Batch{}, err
		}
		recs = append(recs, r)
	}
	return Collate(recs), nil
}
