package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/lightcone/internal/session"
	"github.com/roach88/lightcone/internal/timeline"
)

// DragOptions holds flags for the drag command.
type DragOptions struct {
	*RootOptions
	HistoryOptions
	Event int     // event id
	To    float64 // target timeline location
	Width float64 // timeline width
}

// DragResult reports one drag gesture.
type DragResult struct {
	Event    int               `json:"event"`
	Decision timeline.Decision `json:"decision"`
	From     float64           `json:"from"` // system time before the gesture
	To       float64           `json:"to"`   // system time after the gesture
	WasValid bool              `json:"was_valid"`
	Snapshot SnapshotView      `json:"snapshot"`
}

// NewDragCommand creates the drag command.
func NewDragCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DragOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "drag [history-path]",
		Short: "Move an event's system time along the timeline",
		Long: `Drag one event to a timeline location and report the result.

The location is measured on a timeline of --width units spanning 100
units of system time. The move is clamped to the event's client window,
jumps past a blocking event, and is rejected off the timeline.

Exit codes:
  0 - The move was accepted
  1 - The move was suppressed or out of bounds
  2 - Command error

Examples:
  lightcone drag --sample --event 2 --to 359
  lightcone drag history.yaml --event 3 --to 50 --width 100 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrag(opts, pathArg(args), cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().IntVar(&opts.Event, "event", 0, "id of the event to move (required)")
	cmd.Flags().Float64Var(&opts.To, "to", 0, "target timeline location (required)")
	cmd.Flags().Float64Var(&opts.Width, "width", timeline.DefaultWidth, "timeline width in location units")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runDrag(opts *DragOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	h, err := LoadHistory(path, &opts.HistoryOptions)
	if err != nil {
		return reportError(formatter, err)
	}
	space, err := timeline.NewSpace(opts.Width)
	if err != nil {
		return reportError(formatter, &LoadError{Code: ErrCodeInvalidFlag, Message: err.Error()})
	}
	index := h.Events.IndexOf(opts.Event)
	if index < 0 {
		return reportError(formatter, &LoadError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("history %q has no event with id %d", h.Name, opts.Event),
		})
	}

	s := session.New(h, session.WithSpace(space), session.WithLogger(newLogger(opts.RootOptions, cmd)))
	before := s.Snapshot()

	decision, err := dragEvent(s, index, opts.To)
	if err != nil {
		return reportError(formatter, &LoadError{Code: ErrCodeRejected, Message: err.Error()})
	}

	after := s.Snapshot()
	view, err := newSnapshotView(after)
	if err != nil {
		return reportError(formatter, err)
	}
	result := DragResult{
		Event:    opts.Event,
		Decision: decision,
		From:     before.History.Events[index].SystemTime,
		To:       after.History.Events[index].SystemTime,
		WasValid: before.Report.Valid,
		Snapshot: view,
	}

	if err := formatter.Success(result); err != nil {
		return err
	}

	if decision != timeline.Accepted {
		return NewExitError(ExitFailure, fmt.Sprintf("drag %s", decision))
	}
	return nil
}

// dragEvent runs a full press-move-release gesture on the event at index.
func dragEvent(s *session.Session, index int, location float64) (timeline.Decision, error) {
	if _, err := s.Apply(session.PointerDown{Index: index}); err != nil {
		return timeline.InvalidIndex, err
	}
	out, moveErr := s.Apply(session.PointerMove{Location: location})
	if _, err := s.Apply(session.PointerUp{}); err != nil {
		return out.Decision, err
	}
	return out.Decision, moveErr
}

// WriteText prints the move, any change of verdict and the new snapshot.
func (r DragResult) WriteText(w io.Writer) {
	label := fmt.Sprintf("event %d", r.Event)
	for _, e := range r.Snapshot.Events {
		if e.ID == r.Event {
			label = e.Label
		}
	}
	fmt.Fprintf(w, "%s: %s, t=%g -> t=%g\n", label, r.Decision, r.From, r.To)
	if r.WasValid != r.Snapshot.Valid {
		fmt.Fprintf(w, "%s: %s -> %s\n", r.Snapshot.Level.Title(), verdictWord(r.WasValid), verdictWord(r.Snapshot.Valid))
	}
	r.Snapshot.WriteText(w)
}
