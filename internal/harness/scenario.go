package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lightcone/internal/ir"
)

// SampleHistoryRef names the built-in sample history in Scenario.History.
const SampleHistoryRef = "sample"

// Scenario drives a session through steps and checks the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// History is "sample" or a path to a .cue/.yaml history file or
	// directory. LoadScenario resolves relative paths against the
	// scenario file.
	History string `yaml:"history"`

	// HistoryName selects one history when the file defines several.
	HistoryName string `yaml:"history_name,omitempty"`

	// Level overrides the history's consistency level.
	Level ir.ConsistencyLevel `yaml:"level,omitempty"`

	// Width is the timeline width drag locations are measured in.
	Width float64 `yaml:"width,omitempty"`

	// TraceID is recorded in golden traces. Defaults to "test-trace-default".
	TraceID string `yaml:"trace_id,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user gesture. Exactly one field is set.
type Step struct {
	Drag   *DragStep           `yaml:"drag,omitempty"`
	Boost  *float64            `yaml:"boost,omitempty"`
	Handle *HandleStep         `yaml:"handle,omitempty"`
	Level  ir.ConsistencyLevel `yaml:"level,omitempty"`
}

// DragStep drags the event with id Event to raw location To.
type DragStep struct {
	Event int     `yaml:"event"`
	To    float64 `yaml:"to"`
}

// HandleStep drags the basis handle by (DX, DY) as one gesture.
type HandleStep struct {
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// Assertion checks the session once every step has run.
type Assertion struct {
	// Type is one of valid, system_time, store_values, velocity, decision.
	Type string `yaml:"type"`

	// Level is checked by valid; defaults to the session's level.
	Level ir.ConsistencyLevel `yaml:"level,omitempty"`

	// Frame is "rest" (default) or "boosted".
	Frame string `yaml:"frame,omitempty"`

	// Event is the event id read by system_time.
	Event *int `yaml:"event,omitempty"`

	// Step is the step index read by decision.
	Step *int `yaml:"step,omitempty"`

	// Tolerance bounds float comparisons.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Expect is decoded according to Type.
	Expect yaml.Node `yaml:"expect"`
}

// Assertion type constants.
const (
	AssertValid       = "valid"
	AssertSystemTime  = "system_time"
	AssertStoreValues = "store_values"
	AssertVelocity    = "velocity"
	AssertDecision    = "decision"
)

// Frame names.
const (
	FrameRest    = "rest"
	FrameBoosted = "boosted"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected. A relative History path is resolved against the directory
// holding the scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if scenario.History != SampleHistoryRef && !filepath.IsAbs(scenario.History) {
		scenario.History = filepath.Join(filepath.Dir(path), scenario.History)
	}
	return scenario, nil
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.History == "" {
		return fmt.Errorf("history is required")
	}
	if s.Level != "" && !s.Level.Valid() {
		return fmt.Errorf("unknown level %q", s.Level)
	}
	if s.Width < 0 {
		return fmt.Errorf("width must be positive")
	}
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	set := 0
	if step.Drag != nil {
		set++
	}
	if step.Boost != nil {
		set++
	}
	if step.Handle != nil {
		set++
	}
	if step.Level != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of drag, boost, handle, level is required", index)
	}
	return nil
}

func validateAssertion(index int, a Assertion, steps int) error {
	if a.Expect.Kind == 0 {
		return fmt.Errorf("assertions[%d]: expect is required", index)
	}
	if a.Frame != "" && a.Frame != FrameRest && a.Frame != FrameBoosted {
		return fmt.Errorf("assertions[%d]: frame must be %q or %q", index, FrameRest, FrameBoosted)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertValid:
		if a.Level != "" && !a.Level.Valid() {
			return fmt.Errorf("assertions[%d]: unknown level %q", index, a.Level)
		}
	case AssertSystemTime:
		if a.Event == nil {
			return fmt.Errorf("assertions[%d]: event is required for system_time", index)
		}
	case AssertStoreValues, AssertVelocity:
	case AssertDecision:
		if a.Step == nil {
			return fmt.Errorf("assertions[%d]: step is required for decision", index)
		}
		if *a.Step < 0 || *a.Step >= steps {
			return fmt.Errorf("assertions[%d]: step %d out of range", index, *a.Step)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
