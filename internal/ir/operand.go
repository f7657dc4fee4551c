package ir

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes a scalar operand as a number and a CAS operand as
// [expected, new].
func (v OpValue) MarshalJSON() ([]byte, error) {
	if v.pair {
		return json.Marshal([2]int64{v.Expected, v.New})
	}
	return json.Marshal(v.Value)
}

// UnmarshalJSON accepts a number or a two-element array.
func (v *OpValue) UnmarshalJSON(data []byte) error {
	var scalar int64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*v = OpValue{Value: scalar}
		return nil
	}
	var pair []int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("opValue must be an integer or [expected, new]: %w", err)
	}
	return v.setPair(pair)
}

// MarshalYAML mirrors MarshalJSON.
func (v OpValue) MarshalYAML() (interface{}, error) {
	if v.pair {
		return []int64{v.Expected, v.New}, nil
	}
	return v.Value, nil
}

// UnmarshalYAML accepts a scalar integer or a two-element sequence.
func (v *OpValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var scalar int64
		if err := node.Decode(&scalar); err != nil {
			return fmt.Errorf("line %d: opValue: %w", node.Line, err)
		}
		*v = OpValue{Value: scalar}
		return nil
	case yaml.SequenceNode:
		var pair []int64
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("line %d: opValue: %w", node.Line, err)
		}
		if err := v.setPair(pair); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		return nil
	default:
		return fmt.Errorf("line %d: opValue must be an integer or [expected, new]", node.Line)
	}
}

func (v *OpValue) setPair(pair []int64) error {
	if len(pair) != 2 {
		return fmt.Errorf("CAS opValue needs exactly 2 elements, got %d", len(pair))
	}
	*v = CASOf(pair[0], pair[1])
	return nil
}
