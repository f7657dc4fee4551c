package ir

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ClientID identifies one of the two clients issuing operations.
type ClientID int

const (
	ClientA ClientID = iota
	ClientB
)

// Clients is the fixed two-client topology. Validators iterate this instead
// of hardcoding client identifiers.
var Clients = [2]ClientID{ClientA, ClientB}

func (c ClientID) String() string {
	switch c {
	case ClientA:
		return "A"
	case ClientB:
		return "B"
	default:
		return fmt.Sprintf("ClientID(%d)", int(c))
	}
}

// MarshalText encodes the client as "A" or "B".
func (c ClientID) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid client %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything ParseClientID accepts.
func (c *ClientID) UnmarshalText(text []byte) error {
	parsed, err := ParseClientID(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Valid reports whether c is one of Clients.
func (c ClientID) Valid() bool {
	return c == ClientA || c == ClientB
}

// ParseClientID accepts "A"/"B" (case-insensitive) or "0"/"1".
func ParseClientID(s string) (ClientID, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "0":
		return ClientA, nil
	case "B", "1":
		return ClientB, nil
	}
	return 0, fmt.Errorf("unknown client %q: must be A or B", s)
}

// Operation is the register operation a client issued.
type Operation string

const (
	OpRead  Operation = "READ"
	OpWrite Operation = "WRITE"
	OpCAS   Operation = "CAS"
)

// ValidOperations defines allowed operations.
var ValidOperations = map[Operation]bool{
	OpRead:  true,
	OpWrite: true,
	OpCAS:   true,
}

// OpValue is the operand of an operation. READ and WRITE use Value;
// CAS uses Expected and New. On the wire a scalar operand is a bare
// integer and a CAS operand is a two-element list: 3 or [2, 3].
// See operand.go for the codecs.
type OpValue struct {
	Value    int64
	Expected int64
	New      int64
	pair     bool
}

// ReadOf is the operand of a READ that observed v.
func ReadOf(v int64) OpValue { return OpValue{Value: v} }

// WriteOf is the operand of a WRITE of v.
func WriteOf(v int64) OpValue { return OpValue{Value: v} }

// CASOf is the operand of a compare-and-set from expected to next.
func CASOf(expected, next int64) OpValue { return OpValue{Expected: expected, New: next, pair: true} }

// IsPair reports whether the operand is a CAS (expected, new) pair.
func (v OpValue) IsPair() bool { return v.pair }

// Event is one client operation with its client-observed and
// system-observed timestamps. Only SystemTime is mutable, and only by
// producing a new Events collection.
type Event struct {
	ID         int       `json:"id" yaml:"id"`
	Client     ClientID  `json:"clientPid" yaml:"clientPid"`
	Op         Operation `json:"clientOperation" yaml:"clientOperation"`
	Value      OpValue   `json:"opValue" yaml:"opValue"`
	ClientSend float64   `json:"clientSend" yaml:"clientSend"`
	ClientAck  float64   `json:"clientAck" yaml:"clientAck"`
	SystemTime float64   `json:"systemTime" yaml:"systemTime"`
}

// OperandString renders the operand the way timelines label it:
// "3" for READ/WRITE, "2, 3" for CAS.
func (e Event) OperandString() string {
	if e.Op == OpCAS {
		return fmt.Sprintf("%d, %d", e.Value.Expected, e.Value.New)
	}
	return fmt.Sprintf("%d", e.Value.Value)
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)@%s t=%g", e.Op, e.OperandString(), e.Client, e.SystemTime)
}

// Events is an ordered event collection. Order is display order only.
// Methods never mutate the receiver.
type Events []Event

// Clone returns an independent copy.
func (es Events) Clone() Events {
	if es == nil {
		return nil
	}
	out := make(Events, len(es))
	copy(out, es)
	return out
}

// WithSystemTime returns a new collection where event i has system time t.
// All other events are carried over unchanged.
func (es Events) WithSystemTime(i int, t float64) Events {
	out := es.Clone()
	out[i].SystemTime = t
	return out
}

// IndexOf returns the position of the event with the given id, or -1.
func (es Events) IndexOf(id int) int {
	for i, e := range es {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// BySystemTime returns a copy ordered by SystemTime ascending.
// Ties are broken by ascending ID so the order is total.
func (es Events) BySystemTime() Events {
	return es.sortedBy(func(e Event) float64 { return e.SystemTime })
}

// ByClientSend returns a copy ordered by ClientSend ascending, ties by ID.
func (es Events) ByClientSend() Events {
	return es.sortedBy(func(e Event) float64 { return e.ClientSend })
}

// ForClient returns the subsequence issued by c, in display order.
func (es Events) ForClient(c ClientID) Events {
	var out Events
	for _, e := range es {
		if e.Client == c {
			out = append(out, e)
		}
	}
	return out
}

// IDs returns the event ids in collection order.
func (es Events) IDs() []int {
	ids := make([]int, len(es))
	for i, e := range es {
		ids[i] = e.ID
	}
	return ids
}

func (es Events) sortedBy(key func(Event) float64) Events {
	out := es.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		if ki != kj {
			return ki < kj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ConsistencyLevel selects which validator a history is judged by.
type ConsistencyLevel string

const (
	Linearizable ConsistencyLevel = "linearizable"
	Sequential   ConsistencyLevel = "sequential"
	Serializable ConsistencyLevel = "serializable"
)

// ConsistencyLevels lists the levels in presentation order.
var ConsistencyLevels = []ConsistencyLevel{Linearizable, Sequential, Serializable}

// ParseConsistencyLevel parses a level name (case-insensitive).
func ParseConsistencyLevel(s string) (ConsistencyLevel, error) {
	l := ConsistencyLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown consistency level %q: must be one of %v", s, ConsistencyLevels)
	}
	return l, nil
}

// Valid reports whether l is a known level.
func (l ConsistencyLevel) Valid() bool {
	for _, known := range ConsistencyLevels {
		if l == known {
			return true
		}
	}
	return false
}

// Title returns the display form, e.g. "Linearizable".
func (l ConsistencyLevel) Title() string {
	return cases.Title(language.English).String(string(l))
}

// History is an event collection plus the level currently selected for display.
type History struct {
	Name   string           `json:"name" yaml:"name"`
	Level  ConsistencyLevel `json:"consistencyLevel" yaml:"consistencyLevel"`
	Events Events           `json:"events" yaml:"events"`
}

// WithEvents returns a copy of h holding events.
func (h History) WithEvents(events Events) History {
	h.Events = events
	return h
}

// WithLevel returns a copy of h with the selected level replaced.
func (h History) WithLevel(level ConsistencyLevel) History {
	h.Level = level
	return h
}
