// Package engine wires the driver's pipeline together: bytes in from the
// serial transport, frames decoded, peaks extracted, touches tracked and
// filtered, events emitted. It owns all per-frame state so the daemon's
// main loop can stay a thin byte-feeding shell.
package engine

import (
	"ctma395-touchd/internal/diag"
	"ctma395-touchd/internal/events"
	"ctma395-touchd/internal/filters"
	"ctma395-touchd/internal/frame"
	"ctma395-touchd/internal/grid"
	"ctma395-touchd/internal/peaks"
	"ctma395-touchd/internal/tracker"
)

// FrameObserver is notified once per completed frame, after tracking but
// before filtering and event emission, so the touches it sees carry
// unfiltered positions. The debug visualizer is the
// only consumer today; it's nil in normal operation, at zero cost to the
// hot path.
type FrameObserver func(m *Snapshot)

// Snapshot is the read-only view of one completed frame handed to a
// FrameObserver.
type Snapshot struct {
	Matrix     *grid.Matrix
	Candidates []peaks.Candidate
	Touches    []tracker.Touchpoint
}

// Engine owns the full decode-track-filter-emit pipeline for one touch
// panel.
type Engine struct {
	decoder     *frame.Decoder
	tracker     *tracker.Tracker
	debouncer   filters.Debouncer
	emitter     *events.Emitter
	orientation peaks.Orientation
	logger      *diag.Logger
	observer    FrameObserver
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOrientation sets the coordinate transform applied to extracted
// peaks. Default is peaks.Orientation0.
func WithOrientation(o peaks.Orientation) Option {
	return func(e *Engine) { e.orientation = o }
}

// WithLogger attaches a diagnostic logger. Default is a no-op logger.
func WithLogger(l *diag.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver attaches a FrameObserver, invoked once per completed frame.
func WithObserver(obs FrameObserver) Option {
	return func(e *Engine) { e.observer = obs }
}

// New returns an Engine that writes events to sink.
func New(sink events.Sink, opts ...Option) *Engine {
	e := &Engine{
		decoder: frame.New(),
		tracker: tracker.New(),
		emitter: events.New(sink),
		logger:  diag.NewLogger(1000),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Feed pushes one byte of the serial stream through the decoder. When it
// completes a frame, the frame is extracted, tracked, observed, filtered,
// and emitted in that order.
func (e *Engine) Feed(b byte) error {
	e.decoder.PutByte(b)
	if !e.decoder.FrameComplete() {
		return nil
	}

	m := e.decoder.Matrix()
	cands := peaks.Extract(m, e.orientation)
	touches := e.tracker.Track(cands)

	e.runObserver(m, cands, touches)

	return e.emitter.Emit(e.buildReports(touches))
}

// Timeout is called when the serial link has been quiet past the
// inactivity deadline. It lifts off any touches still considered active
// and clears smoothing/debounce history, matching the panel going idle.
func (e *Engine) Timeout() error {
	touches := e.tracker.Timeout()
	e.debouncer.Reset()
	return e.emitter.Emit(e.buildReports(touches))
}

func (e *Engine) buildReports(touches []tracker.Touchpoint) []events.Report {
	reports := make([]events.Report, len(touches))

	activeCount := 0
	for i := range touches {
		if touches[i].Active {
			activeCount++
		}
	}

	for i := range touches {
		tp := &touches[i]
		reports[i] = events.Report{
			Slot:       tp.Slot,
			Active:     tp.Active,
			JustFreed:  tp.JustFreed,
			TrackingID: tp.TrackingID,
			TouchMajor: tp.TouchMajor,
		}
		if !tp.Active {
			if tp.JustFreed && activeCount == 0 {
				e.debouncer.Reset()
			}
			continue
		}

		x, y := filters.Smooth(tp)
		if activeCount == 1 {
			x, y = e.debouncer.Filter(x, y)
		}
		reports[i].X = int(x)
		reports[i].Y = int(y)
	}
	return reports
}

func (e *Engine) runObserver(m *grid.Matrix, cands []peaks.Candidate, touches []tracker.Touchpoint) {
	if e.observer == nil {
		return
	}
	e.observer(&Snapshot{Matrix: m, Candidates: cands, Touches: touches})
}
