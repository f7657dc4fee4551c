package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/lightcone/internal/compiler"
	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/session"
	"github.com/roach88/lightcone/internal/testutil"
	"github.com/roach88/lightcone/internal/timeline"
)

// Harness executes one scenario.
type Harness struct {
	session *session.Session
	clock   *testutil.DeterministicClock
	logger  *slog.Logger
}

// Run executes a scenario in a fresh session and evaluates its assertions.
// An error is returned only when the scenario cannot be set up; failed
// assertions are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	h, err := ResolveHistory(scenario)
	if err != nil {
		return nil, err
	}
	if scenario.Level != "" {
		h = h.WithLevel(scenario.Level)
	}
	if errs := compiler.Validate(h); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid history %q: %s", h.Name, strings.Join(msgs, "; "))
	}

	space := timeline.DefaultSpace()
	if scenario.Width > 0 {
		if space, err = timeline.NewSpace(scenario.Width); err != nil {
			return nil, err
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hn := &Harness{
		session: session.New(h, session.WithSpace(space), session.WithLogger(logger)),
		clock:   testutil.NewDeterministicClock(),
		logger:  logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		result.AddTrace(hn.executeStep(i, step))
	}
	result.Final = hn.session.Snapshot()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// ResolveHistory loads the history a scenario names.
func ResolveHistory(scenario *Scenario) (ir.History, error) {
	if scenario.History == SampleHistoryRef {
		return testutil.SampleHistory(), nil
	}

	hs, err := compiler.LoadHistories(scenario.History)
	if err != nil {
		return ir.History{}, fmt.Errorf("failed to load history: %w", err)
	}
	if scenario.HistoryName == "" {
		if len(hs) != 1 {
			return ir.History{}, fmt.Errorf("%s defines %d histories: set history_name", scenario.History, len(hs))
		}
		return hs[0], nil
	}
	for _, h := range hs {
		if h.Name == scenario.HistoryName {
			return h, nil
		}
	}
	return ir.History{}, fmt.Errorf("history %q not found in %s", scenario.HistoryName, scenario.History)
}

// executeStep turns a step into session signals and records the result.
// A drag is a full pointer gesture; its trace entry reports the move.
func (hn *Harness) executeStep(index int, step Step) TraceEvent {
	var signals []session.Signal
	report := 0
	switch {
	case step.Drag != nil:
		pos := hn.session.Snapshot().History.Events.IndexOf(step.Drag.Event)
		signals = []session.Signal{
			session.PointerDown{Index: pos},
			session.PointerMove{Location: step.Drag.To},
			session.PointerUp{},
		}
		report = 1
	case step.Boost != nil:
		signals = []session.Signal{session.Boost{Stretch: *step.Boost}}
	case step.Handle != nil:
		signals = []session.Signal{
			session.HandleDrag{DX: step.Handle.DX, DY: step.Handle.DY},
			session.PointerUp{},
		}
	default:
		signals = []session.Signal{session.SelectLevel{Level: step.Level}}
	}

	ev := TraceEvent{
		Seq:    hn.clock.Next(),
		Step:   index,
		Signal: fmt.Sprint(signals[report]),
	}
	for i, sig := range signals {
		out, err := hn.session.Apply(sig)
		if err != nil {
			var se *session.SignalError
			if errors.As(err, &se) {
				err = se.Err
			}
			ev.Error = err.Error()
			hn.logger.Debug("step rejected", "step", index, "signal", sig, "error", err)
			break
		}
		if i == report {
			ev.Applied = out.Applied
			if _, ok := sig.(session.PointerMove); ok {
				ev.Decision = out.Decision.String()
			}
		}
	}
	ev.Revision = hn.session.Snapshot().Revision
	return ev
}
