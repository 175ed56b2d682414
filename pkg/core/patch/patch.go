package patch

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// negative. Hosts use non-negative client identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be negative")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidPortMode is returned when parsing an unknown port mode name.
	ErrInvalidPortMode = errors.New("invalid port mode")

	// ErrInvalidBoxType is returned when parsing an unknown box type name.
	ErrInvalidBoxType = errors.New("invalid box type")
)

// PortMode tells which side of a client a box shows. It is a bit set:
// a BOTH box owns the input and the output ports of its client.
type PortMode int

const (
	PortModeNull   PortMode = 0x00
	PortModeInput  PortMode = 0x01
	PortModeOutput PortMode = 0x02
	PortModeBoth            = PortModeInput | PortModeOutput
)

// Has reports whether m shares at least one side with other.
func (m PortMode) Has(other PortMode) bool { return m&other != 0 }

// Opposite returns the other side. BOTH and NULL have no opposite side.
func (m PortMode) Opposite() PortMode {
	switch m {
	case PortModeInput:
		return PortModeOutput
	case PortModeOutput:
		return PortModeInput
	}
	return PortModeNull
}

func (m PortMode) String() string {
	switch m {
	case PortModeNull:
		return "null"
	case PortModeInput:
		return "input"
	case PortModeOutput:
		return "output"
	case PortModeBoth:
		return "both"
	}
	return fmt.Sprintf("PortMode(%d)", int(m))
}

// ParsePortMode converts a name produced by [PortMode.String] back into a
// port mode. Matching is case-insensitive.
func ParsePortMode(s string) (PortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null", "":
		return PortModeNull, nil
	case "input", "in":
		return PortModeInput, nil
	case "output", "out":
		return PortModeOutput, nil
	case "both":
		return PortModeBoth, nil
	}
	return PortModeNull, fmt.Errorf("%w: %q", ErrInvalidPortMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m PortMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PortMode) UnmarshalText(b []byte) error {
	v, err := ParsePortMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// BoxType is the kind of client a node represents.
type BoxType int

const (
	BoxTypeApplication BoxType = iota
	BoxTypeHardware
	BoxTypeMonitor
	BoxTypeDistrho
	BoxTypeFile
	BoxTypePlugin
	BoxTypeLadishRoom
	BoxTypeClient
	BoxTypeInternal
)

var boxTypeNames = []string{
	"application", "hardware", "monitor", "distrho", "file",
	"plugin", "ladish_room", "client", "internal",
}

func (t BoxType) String() string {
	if t >= 0 && int(t) < len(boxTypeNames) {
		return boxTypeNames[t]
	}
	return fmt.Sprintf("BoxType(%d)", int(t))
}

// ParseBoxType converts a name produced by [BoxType.String] back into a box
// type. An empty name is an application.
func ParseBoxType(s string) (BoxType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BoxTypeApplication, nil
	}
	if i := slices.Index(boxTypeNames, s); i >= 0 {
		return BoxType(i), nil
	}
	return BoxTypeApplication, fmt.Errorf("%w: %q", ErrInvalidBoxType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t BoxType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *BoxType) UnmarshalText(b []byte) error {
	v, err := ParseBoxType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Node is one client of the routing graph.
type Node struct {
	ID    int      // Stable host identifier
	Name  string   // Display name, informational only
	Type  BoxType  // Hardware nodes are always shown as two boxes
	Ports PortMode // Sides the client owns ports on
}

// IsHardware reports whether the node is a hardware device.
func (n Node) IsHardware() bool { return n.Type == BoxTypeHardware }

// Edge is a directed connection from an output port of From to an input
// port of To. Several port connections between the same two clients
// collapse into one edge for layout purposes.
type Edge struct {
	From int
	To   int
}

// BoxKey identifies one box: a node and the side it shows.
type BoxKey struct {
	Node int
	Mode PortMode
}

func (k BoxKey) String() string { return fmt.Sprintf("%d:%s", k.Node, k.Mode) }

// Compare orders keys by node ID, then port mode.
func (k BoxKey) Compare(other BoxKey) int {
	if k.Node != other.Node {
		if k.Node < other.Node {
			return -1
		}
		return 1
	}
	switch {
	case k.Mode < other.Mode:
		return -1
	case k.Mode > other.Mode:
		return 1
	}
	return 0
}
