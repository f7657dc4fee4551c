package harness

import (
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lightcone/internal/ir"
	"github.com/roach88/lightcone/internal/testutil"
)

// goldenPrecision is the number of decimals times are rounded to in golden
// traces, so last-bit float differences do not churn the files.
const goldenPrecision = 1e6

// TraceSnapshot captures a scenario execution for golden comparison.
type TraceSnapshot struct {
	ScenarioName string
	TraceID      string
	Result       *Result
}

func roundTime(t float64) float64 {
	return math.Round(t*goldenPrecision) / goldenPrecision
}

func canonicalTimes(events ir.Events) []any {
	out := make([]any, len(events))
	for i, e := range events {
		out[i] = roundTime(e.SystemTime)
	}
	return out
}

func canonicalInts(vs []int64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// toCanonicalMap converts the snapshot to the generic form
// ir.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Result.Trace))
	for i, ev := range s.Result.Trace {
		m := map[string]any{
			"seq":      ev.Seq,
			"step":     ev.Step,
			"signal":   ev.Signal,
			"applied":  ev.Applied,
			"revision": ev.Revision,
		}
		if ev.Decision != "" {
			m["decision"] = ev.Decision
		}
		if ev.Error != "" {
			m["error"] = ev.Error
		}
		trace[i] = m
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace_id":      s.TraceID,
		"trace":         trace,
	}
	if f := s.Result.Final; f != nil {
		out["final"] = map[string]any{
			"revision":      f.Revision,
			"level":         string(f.History.Level),
			"valid":         f.Report.Valid,
			"values":        canonicalInts(f.Values),
			"system_times":  canonicalTimes(f.History.Events),
			"stretch":       roundTime(f.Stretch),
			"velocity":      f.Velocity.String(),
			"boosted_valid": f.BoostedReport.Valid,
			"boosted_times": canonicalTimes(f.Boosted),
		}
	}
	return out
}

// MarshalGolden renders the canonical JSON bytes stored in golden files.
func (s *TraceSnapshot) MarshalGolden() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// GoldenBytes renders the golden trace of a scenario run. The trace id is
// pinned to the scenario's TraceID.
func GoldenBytes(scenario *Scenario, result *Result) ([]byte, error) {
	snap := &TraceSnapshot{
		ScenarioName: scenario.Name,
		TraceID:      testutil.NewFixedTraceGenerator(scenario.TraceID).Generate(),
		Result:       result,
	}
	return snap.MarshalGolden()
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario, result)
}

// AssertGolden compares an existing result against the scenario's golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := GoldenBytes(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
