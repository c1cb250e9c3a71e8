package iconpack

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.sr.ht/~jackmordaunt/iconpack/internal/util"
)

// Status is the lifecycle state of a batch item. Completed and Error are
// terminal and set exactly once.
type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusCompleted
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Item is one unit of batch work. The scheduler owns the item for the
// duration of a run; no two in-flight items share any mutable state.
type Item struct {
	ID       string
	File     File
	Sizes    []int
	Target   Target
	Status   Status
	Progress int
	Result   *Result
	Err      error
}

// NewItem builds a pending item with a fresh opaque id.
func NewItem(f File, sizes []int, target Target) *Item {
	return &Item{
		ID:     uuid.NewString(),
		File:   f,
		Sizes:  sizes,
		Target: target,
	}
}

// Converter runs one conversion request. *Pipeline is the production
// implementation.
type Converter interface {
	Convert(ctx context.Context, req Request) (*Result, error)
}

// ProgressFunc receives per-item progress updates. The error message is
// empty unless status is StatusError.
type ProgressFunc func(id string, percent int, status Status, errMessage string)

// Reference timeouts observed to cover slow inputs comfortably.
const (
	SingleTimeout  = 15 * time.Second
	BatchTimeout   = 30 * time.Second
	PackageTimeout = 60 * time.Second
)

// DefaultConcurrency is the stock batch fan-out width.
const DefaultConcurrency = 3

// Scheduler fans the pipeline out across a batch with bounded concurrency.
// At most Concurrency items are in flight; a freed slot is immediately
// backfilled with the next pending item. Construct one per batch
// orchestrator; there is no ambient global instance.
type Scheduler struct {
	Converter   Converter
	Concurrency int
	// Timeout bounds the wall-clock time of each item. Zero means BatchTimeout.
	Timeout time.Duration
	// OnItem, when set, fires after every item state change.
	OnItem ProgressFunc
	// OnOverall, when set, fires with the batch percentage after every
	// settled item.
	OnOverall func(percent int)
	Log       *log.Logger
}

// Run processes every item, mutating status, progress, result and error in
// place. One item's failure or timeout never aborts its siblings; the run
// always settles every item as completed or error. The returned error
// aggregates item failures and is nil when all items succeeded.
func (s *Scheduler) Run(ctx context.Context, items []*Item) error {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = BatchTimeout
	}

	var (
		jobs    = make(chan *Item)
		errs    = make(chan error, len(items))
		wg      sync.WaitGroup
		mu      sync.Mutex
		settled int
	)
	settle := func() {
		mu.Lock()
		settled++
		percent := overallPercent(settled, len(items))
		mu.Unlock()
		if s.OnOverall != nil {
			s.OnOverall(percent)
		}
	}
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				s.process(ctx, item, timeout)
				if item.Err != nil {
					errs <- fmt.Errorf("%s: %w", item.File.Name, item.Err)
				}
				settle()
			}
		}()
	}
	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()
	close(errs)
	var merr util.MultiError
	return merr.FromChan(errs).Err()
}

// process runs one item against its deadline. On timeout the
// in-flight conversion is abandoned, not cancelled: we stop waiting, and the
// straggler's result is discarded when it eventually lands.
func (s *Scheduler) process(ctx context.Context, item *Item, timeout time.Duration) {
	item.Status = StatusProcessing
	item.Progress = 10
	s.notify(item, "")

	type outcome struct {
		result *Result
		err    error
	}
	// Buffered so an abandoned conversion can land its result and exit
	// without a reader. Only this goroutine mutates the item.
	done := make(chan outcome, 1)
	milestones := make(chan int, 8)
	go func() {
		result, err := s.Converter.Convert(ctx, Request{
			File:   item.File,
			Sizes:  item.Sizes,
			Target: item.Target,
			Progress: func(percent int) {
				select {
				case milestones <- percent:
				default:
				}
			},
		})
		done <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case percent := <-milestones:
			// Terminal progress is set on settle, never here.
			if percent < 100 && percent > item.Progress {
				item.Progress = percent
				s.notify(item, "")
			}
		case out := <-done:
			if out.err != nil {
				s.fail(item, out.err)
				return
			}
			item.Result = out.result
			item.Status = StatusCompleted
			item.Progress = 100
			s.notify(item, "")
			return
		case <-timer.C:
			s.fail(item, failf(Timeout, "timed out after %s", timeout))
			return
		case <-ctx.Done():
			s.fail(item, failf(Timeout, "batch cancelled"))
			return
		}
	}
}

func (s *Scheduler) fail(item *Item, err error) {
	item.Err = err
	item.Status = StatusError
	item.Progress = 0
	if s.Log != nil {
		s.Log.Printf("batch: item %s (%s) failed: %v", item.ID, item.File.Name, err)
	}
	s.notify(item, err.Error())
}

func (s *Scheduler) notify(item *Item, errMessage string) {
	if s.OnItem != nil {
		s.OnItem(item.ID, item.Progress, item.Status, errMessage)
	}
}

func overallPercent(settled, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(settled) / float64(total)))
}
