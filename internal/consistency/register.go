package consistency

import "github.com/roach88/lightcone/internal/ir"

// StoreValues returns, for each event in system-time order, the register
// value in effect immediately before that event took effect. The result has
// len(events) entries and does not depend on the input's display order.
func StoreValues(events ir.Events) []int64 {
	return storeValues(events.BySystemTime())
}

// FinalValue is the register value after every event has been applied.
func FinalValue(events ir.Events) int64 {
	var current int64
	for _, e := range events.BySystemTime() {
		current = apply(current, e)
	}
	return current
}

// storeValues replays events that are already in system-time order.
func storeValues(ordered ir.Events) []int64 {
	values := make([]int64, len(ordered))
	var current int64
	for i, e := range ordered {
		values[i] = current
		current = apply(current, e)
	}
	return values
}

// apply is the register transition. CAS writes unconditionally.
func apply(current int64, e ir.Event) int64 {
	switch e.Op {
	case ir.OpWrite:
		return e.Value.Value
	case ir.OpCAS:
		return e.Value.New
	default:
		return current
	}
}
