package search

import (
	"runtime"

	"go.uber.org/zap"
)

// DefaultChunkSize is how many booster combinations one dispatched chunk
// carries. Together with the *5 dispatch threshold it decides when a search
// is too small to be worth fanning out.
const DefaultChunkSize = 10000

type EventKind int

const (
	// EventMessage carries a formatted text block for the caller to display.
	EventMessage EventKind = iota + 1
	// EventStep marks one folded chunk result; useful for progress bars.
	EventStep
	// EventCancelled is the final event of a cancelled search.
	EventCancelled
)

// Event is a progress notification. Events are delivered from the goroutine
// that called Search, never from a worker.
type Event struct {
	Kind EventKind
	Text string
}

// Options tunes a search run. The zero value is usable: missing fields fall
// back to DefaultOptions.
type Options struct {
	// Workers is the parallelism budget. One worker is reserved for
	// coordination, the rest evaluate chunks; a budget of 1 (or a workload
	// below the dispatch threshold) runs on the calling goroutine.
	Workers int
	// ChunkSize overrides DefaultChunkSize.
	ChunkSize int
	// Prelim caps how many loadouts survive the preliminary filter.
	// Zero or negative leaves the filter off.
	Prelim int
	// OnEvent receives progress events; nil disables them.
	OnEvent func(Event)
	// Logger receives phase diagnostics at debug level.
	Logger *zap.Logger
}

// DefaultOptions uses every core, the default chunk size and no filtering.
func DefaultOptions() Options {
	return Options{
		Workers:   runtime.GOMAXPROCS(0),
		ChunkSize: DefaultChunkSize,
		Logger:    zap.NewNop(),
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Workers < 1 {
		o.Workers = def.Workers
	}
	if o.ChunkSize < 1 {
		o.ChunkSize = def.ChunkSize
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}

func (o *Options) emit(e Event) {
	if o.OnEvent != nil {
		o.OnEvent(e)
	}
}
