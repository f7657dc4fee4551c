package cli

import (
	"fmt"
	"io"

	"github.com/roach88/lightcone/internal/consistency"
	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/session"
)

// EventView is one event as the CLI reports it.
type EventView struct {
	ID          int     `json:"id"`
	Label       string  `json:"label"` // e.g. "CAS(2, 3)@A"
	SystemTime  float64 `json:"system_time"`
	BoostedTime float64 `json:"boosted_time"`
	StoreBefore int64   `json:"store_before"`
}

// SnapshotView is the CLI rendering of a session snapshot.
type SnapshotView struct {
	History      string                  `json:"history"`
	Hash         string                  `json:"hash"`
	Level        ir.ConsistencyLevel     `json:"level"`
	Revision     int64                   `json:"revision"`
	Valid        bool                    `json:"valid"`
	Violations   []consistency.Violation `json:"violations,omitempty"`
	Values       []int64                 `json:"values"`
	Stretch      float64                 `json:"stretch"`
	Velocity     string                  `json:"velocity"`
	BoostedValid bool                    `json:"boosted_valid"`
	BoostedHash  string                  `json:"boosted_hash"`
	Events       []EventView             `json:"events"`
}

func newSnapshotView(snap *session.Snapshot) (SnapshotView, error) {
	h := snap.History
	hash, err := ir.HistoryHash(h)
	if err != nil {
		return SnapshotView{}, err
	}
	boostedHash, err := ir.EventsHash(snap.Boosted)
	if err != nil {
		return SnapshotView{}, err
	}

	before := make(map[int]int64, len(snap.Values))
	for i, e := range h.Events.BySystemTime() {
		before[e.ID] = snap.Values[i]
	}

	events := make([]EventView, len(h.Events))
	for i, e := range h.Events {
		events[i] = EventView{
			ID:          e.ID,
			Label:       eventLabel(e),
			SystemTime:  e.SystemTime,
			BoostedTime: snap.Boosted[i].SystemTime,
			StoreBefore: before[e.ID],
		}
	}

	return SnapshotView{
		History:      h.Name,
		Hash:         hash,
		Level:        h.Level,
		Revision:     snap.Revision,
		Valid:        snap.Report.Valid,
		Violations:   snap.Report.Violations,
		Values:       snap.Values,
		Stretch:      snap.Stretch,
		Velocity:     snap.Velocity.String(),
		BoostedValid: snap.BoostedReport.Valid,
		BoostedHash:  boostedHash,
		Events:       events,
	}, nil
}

func eventLabel(e ir.Event) string {
	return fmt.Sprintf("%s(%s)@%s", e.Op, e.OperandString(), e.Client)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// WriteText prints the snapshot header, verdict and event table.
func (v SnapshotView) WriteText(w io.Writer) {
	fmt.Fprintf(w, "%s  revision %d\n", v.History, v.Revision)
	fmt.Fprintf(w, "  %s %s\n", mark(v.Valid), v.Level.Title())
	writeViolations(w, v.Violations)
	if v.Stretch != 1 {
		fmt.Fprintf(w, "  stretch %g, %s, boosted frame %s\n", v.Stretch, v.Velocity, verdictWord(v.BoostedValid))
	}
	fmt.Fprintf(w, "  %-4s %-14s %10s %10s %6s\n", "id", "event", "time", "boosted", "store")
	for _, e := range v.Events {
		fmt.Fprintf(w, "  %-4d %-14s %10.3f %10.3f %6d\n", e.ID, e.Label, e.SystemTime, e.BoostedTime, e.StoreBefore)
	}
}

func writeViolations(w io.Writer, vs []consistency.Violation) {
	for _, v := range vs {
		fmt.Fprintf(w, "      event %d %s: %s\n", v.EventID, v.Rule, v.Message)
	}
}

func verdictWord(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
