package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// ErrNoCandidates means the request has no vehicle, no loadouts or no
	// booster variants; there is nothing to test.
	ErrNoCandidates = errors.New("nothing to test: request needs a vehicle, loadouts and boosters")
	// ErrCancelled is returned when the caller's context is cancelled before
	// the search completes. A cancelled search yields no result, partial or
	// otherwise.
	ErrCancelled = errors.New("search cancelled")
)

// Search finds the loadout + booster combination that survives the request's
// damage profile the longest (or, better, outlasts it entirely). The work is
// chunked and, for large workloads, spread over opts.Workers-1 goroutines
// while the calling goroutine folds chunk results and reports progress.
//
// Cancellation is cooperative through ctx: it is checked immediately before
// every chunk dispatch, so an already-cancelled context returns ErrCancelled
// without evaluating anything. Cancel from any goroutine by cancelling ctx.
func Search(ctx context.Context, req *Request, opts Options) (*Result, error) {
	opts = opts.normalized()
	if err := req.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	k := req.clampedBoosterCount()
	combos := combinations(len(req.Boosters), k)

	// run is the working copy: the prefilter may shorten the loadout list
	// and the clamp may shrink the booster count, but req stays untouched.
	run := *req
	run.BoosterCount = k
	quick := opts.Prelim > 0 && opts.Prelim != len(run.Loadouts)
	if quick {
		run.Loadouts = prelimLoadouts(&run, opts.Prelim)
	}

	totalTests := len(combos) * len(run.Loadouts)
	chunks := chunkCombos(combos, opts.ChunkSize)

	header := "------------ TEST RUN ------------"
	if quick {
		header = "--------- QUICK TEST RUN ---------"
	}
	grouped := message.NewPrinter(language.English)
	opts.emit(Event{Kind: EventMessage, Text: formatRows([]row{
		{value: header},
		{"Booster Count: ", fmt.Sprintf("[%d]", req.BoosterCount)},
		{"Generator Variants: ", fmt.Sprintf("[%d]", len(run.Loadouts))},
		{"Booster Combinations: ", fmt.Sprintf("[%d]", len(combos))},
		{"Loadouts To Be Tested: ", grouped.Sprintf("[%d]", totalTests)},
		{value: "Running calculations. Please wait..."},
		{},
	})})

	parallel := opts.Workers > 1 && totalTests > opts.ChunkSize*5
	opts.Logger.Debug("dispatching search",
		zap.Int("combinations", len(combos)),
		zap.Int("loadouts", len(run.Loadouts)),
		zap.Int("chunks", len(chunks)),
		zap.Int("workers", opts.Workers),
		zap.Bool("parallel", parallel))

	var best *Result
	var err error
	if parallel {
		best, err = runParallel(ctx, &run, chunks, &opts)
	} else {
		best, err = runSerial(ctx, &run, chunks, &opts)
	}
	if err == nil && ctx.Err() != nil {
		// cancelled between the last dispatch and completion
		err = ErrCancelled
	}
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			opts.emit(Event{Kind: EventCancelled})
			return nil, ErrCancelled
		}
		return nil, err
	}

	elapsed := time.Since(start)
	opts.Logger.Debug("search finished",
		zap.Duration("elapsed", elapsed),
		zap.Bool("forever", best.Forever))
	opts.emit(Event{Kind: EventMessage,
		Text: fmt.Sprintf("Calculations took %.2f seconds", elapsed.Seconds())})
	return best, nil
}

// runSerial walks the chunks on the calling goroutine. Small workloads skip
// goroutine overhead entirely but keep the same fold and the same
// cancellation checks as the parallel path.
func runSerial(ctx context.Context, run *Request, chunks [][][]int, opts *Options) (*Result, error) {
	best := &Result{}
	for _, chunk := range chunks {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		r, err := evaluateChunk(run, chunk)
		if err != nil {
			return nil, err
		}
		if betterResult(best, r) {
			best = r
		}
		opts.emit(Event{Kind: EventStep})
	}
	return best, nil
}

// runParallel fans chunks out to a bounded worker pool. The dispatcher checks
// for cancellation before every dispatch; workers fold their chunks locally
// and the calling goroutine folds chunk-bests in arrival order. A worker
// error cancels the remaining work and propagates.
func runParallel(ctx context.Context, run *Request, chunks [][][]int, opts *Options) (*Result, error) {
	workers := opts.Workers - 1
	if workers < 1 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	g, gctx := errgroup.WithContext(ctx)
	jobCh := make(chan [][]int)
	resCh := make(chan *Result, workers)

	g.Go(func() error {
		defer close(jobCh)
		for _, chunk := range chunks {
			if gctx.Err() != nil {
				return ErrCancelled
			}
			select {
			case jobCh <- chunk:
			case <-gctx.Done():
				return ErrCancelled
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for chunk := range jobCh {
				r, err := evaluateChunk(run, chunk)
				if err != nil {
					return err
				}
				select {
				case resCh <- r:
				case <-gctx.Done():
					return ErrCancelled
				}
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(resCh)
	}()

	best := &Result{}
	for r := range resCh {
		if betterResult(best, r) {
			best = r
		}
		opts.emit(Event{Kind: EventStep})
	}
	if err := <-done; err != nil {
		return nil, err
	}
	return best, nil
}
