package repulse

import (
	"fmt"
	"strings"
)

// Direction is the way a box is pushed.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

var directionNames = [...]string{"none", "left", "right", "up", "down"}

func (d Direction) String() string {
	if d >= 0 && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// IsHorizontal reports whether d is left or right.
func (d Direction) IsHorizontal() bool { return d == DirectionLeft || d == DirectionRight }

// ParseDirection converts a name produced by [Direction.String] back into a
// direction. An empty name is [DirectionNone].
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DirectionNone, nil
	}
	for i, name := range directionNames {
		if s == name {
			return Direction(i), nil
		}
	}
	return DirectionNone, fmt.Errorf("invalid direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
