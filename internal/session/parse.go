package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/lightcone/internal/ir"
)

// ParseSignal reads one signal in script form:
//
//	down <index>
//	move <location>
//	up
//	boost <stretch>
//	handle <dx> <dy>
//	level <linearizable|sequential|serializable>
func ParseSignal(line string) (Signal, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	verb, args := strings.ToLower(fields[0]), fields[1:]
	want := map[string]int{"down": 1, "move": 1, "up": 0, "boost": 1, "handle": 2, "level": 1}
	n, ok := want[verb]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSignal, verb)
	}
	if len(args) != n {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", verb, n, len(args))
	}

	switch verb {
	case "down":
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("down: invalid index %q", args[0])
		}
		return PointerDown{Index: idx}, nil
	case "move":
		loc, err := parseFloat("move", args[0])
		if err != nil {
			return nil, err
		}
		return PointerMove{Location: loc}, nil
	case "up":
		return PointerUp{}, nil
	case "boost":
		s, err := parseFloat("boost", args[0])
		if err != nil {
			return nil, err
		}
		return Boost{Stretch: s}, nil
	case "handle":
		dx, err := parseFloat("handle", args[0])
		if err != nil {
			return nil, err
		}
		dy, err := parseFloat("handle", args[1])
		if err != nil {
			return nil, err
		}
		return HandleDrag{DX: dx, DY: dy}, nil
	default:
		level, err := ir.ParseConsistencyLevel(args[0])
		if err != nil {
			return nil, err
		}
		return SelectLevel{Level: level}, nil
	}
}

func parseFloat(verb, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", verb, s)
	}
	return f, nil
}

// ParseScript reads one signal per line. Blank lines and lines starting
// with # are skipped. Errors carry the 1-based line number.
func ParseScript(r io.Reader) ([]Signal, error) {
	var out []Signal
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		sig, err := ParseSignal(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, sig)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return out, nil
}
