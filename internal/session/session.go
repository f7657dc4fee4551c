package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/lightcone/internal/consistency"
	"github.com/roach88/lightcone/internal/frame"
	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/timeline"
)

// ErrUnknownEvent is returned by PointerDown for an index that names no event.
var ErrUnknownEvent = errors.New("no event at index")

// NotDragging is the Dragging value of an idle Snapshot.
const NotDragging = -1

// Snapshot is an immutable view of a session. Its slices must not be
// modified.
type Snapshot struct {
	Revision int64 `json:"revision"`

	// History is the rest frame: the collection drag gestures edit.
	History ir.History         `json:"history"`
	Values  []int64            `json:"values"`
	Report  consistency.Report `json:"report"`

	// Boosted is History reprojected with Stretch. It is display only and
	// never written back into History.
	Stretch       float64            `json:"stretch"`
	Boosted       ir.Events          `json:"boosted"`
	Velocity      frame.Velocity     `json:"velocity"`
	BoostedReport consistency.Report `json:"boosted_report"`

	Dragging int `json:"dragging"`
}

// Outcome describes what Apply did with a signal.
type Outcome struct {
	Kind     string `json:"kind"`
	Applied  bool   `json:"applied"`
	Revision int64  `json:"revision"`

	// Decision is set for PointerMove only and is NoDecision otherwise.
	Decision timeline.Decision `json:"decision,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithSpace sets the timeline geometry drag gestures are resolved in.
func WithSpace(space timeline.Space) Option {
	return func(s *Session) { s.space = space }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is the single-writer state machine around one history.
type Session struct {
	mu     sync.Mutex
	space  timeline.Space
	clock  *Clock
	logger *slog.Logger
	queue  *signalQueue
	snap   atomic.Pointer[Snapshot]

	// handleAnchor is the stretch in effect when the current handle
	// gesture began; nil between gestures.
	handleAnchor *float64
}

// New starts a session on h in the rest frame (stretch 1) at revision 0.
func New(h ir.History, opts ...Option) *Session {
	s := &Session{
		space:  timeline.DefaultSpace(),
		clock:  NewClock(),
		logger: slog.Default(),
		queue:  newSignalQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}

	initial := &Snapshot{
		Revision: s.clock.Current(),
		History:  h.WithEvents(h.Events.Clone()),
		Stretch:  frame.IdentityStretch,
		Dragging: NotDragging,
	}
	derive(initial)
	s.snap.Store(initial)
	return s
}

// Snapshot returns the current view. Safe from any goroutine.
func (s *Session) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Apply applies one signal synchronously. A rejected signal returns a
// *SignalError and leaves the snapshot as it was. A PointerMove whose
// proposal is not accepted is not an error: the Outcome carries the
// Decision and Applied is false.
func (s *Session) Apply(sig Signal) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap.Load()
	out := Outcome{Kind: sig.Kind(), Revision: cur.Revision}

	next, err := s.step(cur, sig, &out)
	if err != nil {
		return out, &SignalError{Signal: sig, Revision: cur.Revision, Err: err}
	}
	if next == nil {
		return out, nil
	}

	next.Revision = s.clock.Next()
	s.snap.Store(next)
	out.Applied = true
	out.Revision = next.Revision

	s.logger.Debug("signal applied",
		"signal", sig,
		"revision", next.Revision,
		"stretch", next.Stretch,
		"level", next.History.Level,
		"valid", next.Report.Valid,
	)
	return out, nil
}

// step computes the snapshot that follows cur, or nil when nothing changes.
func (s *Session) step(cur *Snapshot, sig Signal, out *Outcome) (*Snapshot, error) {
	switch sig := sig.(type) {
	case PointerDown:
		if sig.Index < 0 || sig.Index >= len(cur.History.Events) {
			return nil, fmt.Errorf("%w %d", ErrUnknownEvent, sig.Index)
		}
		next := *cur
		next.Dragging = sig.Index
		return &next, nil

	case PointerMove:
		if cur.Dragging == NotDragging {
			return nil, ErrNotDragging
		}
		events, decision := s.space.Propose(cur.History.Events, cur.Dragging, sig.Location)
		out.Decision = decision
		if !decision.Changed() {
			return nil, nil
		}
		next := *cur
		next.History = cur.History.WithEvents(events)
		derive(&next)
		return &next, nil

	case PointerUp:
		s.handleAnchor = nil
		if cur.Dragging == NotDragging {
			return nil, nil
		}
		next := *cur
		next.Dragging = NotDragging
		return &next, nil

	case Boost:
		return boosted(cur, sig.Stretch)

	case HandleDrag:
		anchor := cur.Stretch
		if s.handleAnchor != nil {
			anchor = *s.handleAnchor
		}
		stretch, err := frame.StretchFromHandle(sig.DX, sig.DY, anchor)
		if err != nil {
			return nil, err
		}
		s.handleAnchor = &anchor
		return boosted(cur, stretch)

	case SelectLevel:
		if !sig.Level.Valid() {
			return nil, fmt.Errorf("unknown consistency level %q", sig.Level)
		}
		next := *cur
		next.History = cur.History.WithLevel(sig.Level)
		derive(&next)
		return &next, nil

	default:
		return nil, fmt.Errorf("%w %T", ErrUnknownSignal, sig)
	}
}

func boosted(cur *Snapshot, stretch float64) (*Snapshot, error) {
	if !frame.ValidStretch(stretch) {
		return nil, fmt.Errorf("%w: got %v", frame.ErrInvalidStretch, stretch)
	}
	next := *cur
	next.Stretch = stretch
	derive(&next)
	return &next, nil
}

// derive recomputes everything that follows from History and Stretch.
func derive(s *Snapshot) {
	events := s.History.Events
	s.Values = consistency.StoreValues(events)
	s.Report = consistency.Check(events, s.History.Level)

	out, v, err := frame.Transform(events, s.Stretch)
	if err != nil {
		// Stretch is validated before it reaches a snapshot.
		panic(err)
	}
	s.Boosted = out
	s.Velocity = v
	s.BoostedReport = consistency.Check(out, s.History.Level)
}

// Enqueue submits a signal for the Run loop. Safe from any goroutine.
func (s *Session) Enqueue(sig Signal) error {
	if !s.queue.Enqueue(sig) {
		return ErrClosed
	}
	return nil
}

// Run applies enqueued signals in FIFO order until ctx is cancelled or
// Stop is called and the queue has drained. A rejected signal is logged
// and the loop continues.
//
// Run must be called from exactly one goroutine.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session starting", "history", s.Snapshot().History.Name)

	for {
		if sig, ok := s.queue.TryDequeue(); ok {
			if _, err := s.Apply(sig); err != nil {
				s.logger.Warn("signal rejected", "signal", sig, "error", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Info("session stopping: context cancelled")
			s.queue.Close()
			return ctx.Err()

		case <-s.queue.Wait():
			if s.queue.Drained() {
				s.logger.Info("session stopping: queue closed",
					"revision", s.clock.Current())
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once the remaining signals are applied.
func (s *Session) Stop() {
	s.queue.Close()
}
