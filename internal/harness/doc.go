// Package harness runs conformance scenarios against a session.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: late_write
//	description: "Dragging B's WRITE past its ack breaks linearizability"
//	history: sample               # "sample" or a path relative to this file
//	history_name: late_write      # picks one history from a multi-history file
//	level: linearizable           # overrides the history's level
//	width: 100                    # timeline width; default 798
//	trace_id: late-write          # recorded in the golden trace
//	steps:
//	  - drag: {event: 2, to: 45}
//	  - boost: 0.5
//	  - handle: {dx: 10, dy: -10}
//	  - level: serializable
//	assertions:
//	  - type: valid
//	    level: linearizable
//	    expect: false
//	  - type: system_time
//	    event: 2
//	    expect: 45
//	  - type: store_values
//	    expect: [0, 3, 3, 3, 2]
//	  - type: velocity
//	    expect: -0.866
//	    tolerance: 0.001
//	  - type: decision
//	    step: 0
//	    expect: accepted
//
// valid, system_time and store_values read the rest frame unless
// frame: boosted is given.
//
// # Deterministic Testing
//
// Every scenario runs in a fresh session with its own revision clock, a
// deterministic trace clock and a fixed trace id, so traces can be
// compared byte for byte against golden files.
package harness
