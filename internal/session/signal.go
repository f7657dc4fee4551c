package session

import (
	"fmt"

	"github.com/roach88/lightcone/internal/ir"
)

// Signal is an input from the presentation layer.
type Signal interface {
	// Kind names the signal in logs and traces.
	Kind() string
}

// PointerDown starts dragging the event at display index Index.
type PointerDown struct {
	Index int
}

// PointerMove proposes a new raw timeline location for the dragged event.
type PointerMove struct {
	Location float64
}

// PointerUp ends the current drag or handle gesture.
type PointerUp struct{}

// Boost sets the stretch factor of the moving frame directly.
type Boost struct {
	Stretch float64
}

// HandleDrag moves the basis handle by (DX, DY) from where the current
// handle gesture began. The first HandleDrag after a PointerUp begins a
// new gesture.
type HandleDrag struct {
	DX, DY float64
}

// SelectLevel switches the level the history is judged by.
type SelectLevel struct {
	Level ir.ConsistencyLevel
}

func (PointerDown) Kind() string { return "pointer_down" }
func (PointerMove) Kind() string { return "pointer_move" }
func (PointerUp) Kind() string   { return "pointer_up" }
func (Boost) Kind() string       { return "boost" }
func (HandleDrag) Kind() string  { return "handle_drag" }
func (SelectLevel) Kind() string { return "select_level" }

func (s PointerDown) String() string { return fmt.Sprintf("pointer_down(%d)", s.Index) }
func (s PointerMove) String() string { return fmt.Sprintf("pointer_move(%g)", s.Location) }
func (PointerUp) String() string     { return "pointer_up" }
func (s Boost) String() string       { return fmt.Sprintf("boost(%g)", s.Stretch) }
func (s HandleDrag) String() string  { return fmt.Sprintf("handle_drag(%g, %g)", s.DX, s.DY) }
func (s SelectLevel) String() string { return fmt.Sprintf("select_level(%s)", s.Level) }
