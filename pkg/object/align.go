package object

import (
	"strings"

	"github.com/matzehuels/cardstack/pkg/errors"
)

// Axis selects the horizontal or vertical component.
type Axis int

// Axes.
const (
	AxisX Axis = iota
	AxisY
)

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Align anchors an object inside its parent's canvas.
type Align string

// Alignments. Left and right apply to x, top and bottom to y, center to both.
const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignTop    Align = "top"
	AlignBottom Align = "bottom"
	AlignCenter Align = "center"
)

// Valid reports whether a is allowed on axis.
func (a Align) Valid(axis Axis) bool {
	switch a {
	case AlignCenter:
		return true
	case AlignLeft, AlignRight:
		return axis == AxisX
	case AlignTop, AlignBottom:
		return axis == AxisY
	}
	return false
}

// Flip swaps left with right and top with bottom. Center is unchanged.
func (a Align) Flip() Align {
	switch a {
	case AlignLeft:
		return AlignRight
	case AlignRight:
		return AlignLeft
	case AlignTop:
		return AlignBottom
	case AlignBottom:
		return AlignTop
	}
	return a
}

// begin reports whether a anchors at the canvas begin.
func (a Align) begin() bool { return a == AlignLeft || a == AlignTop }

// end reports whether a anchors at the canvas end.
func (a Align) end() bool { return a == AlignRight || a == AlignBottom }

// ParseAlign validates s as an alignment on axis.
func ParseAlign(axis Axis, s string) (Align, error) {
	a := Align(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid(axis) {
		return "", errors.New(errors.ErrCodeInvalidAlignment, "invalid %s alignment %q", axis, s)
	}
	return a, nil
}

// DefaultAlign returns the begin alignment of axis.
func DefaultAlign(axis Axis) Align {
	if axis == AxisX {
		return AlignLeft
	}
	return AlignTop
}

// Loc places an object relative to a reference object on one axis.
type Loc string

// Locators. Any valid alignment keyword is also accepted as a Loc and sets
// that alignment with only the extra offset.
const (
	LocNone     Loc = ""
	LocSameAs   Loc = "sameas"
	LocBefore   Loc = "before"
	LocAbove    Loc = "above"
	LocLeftOf   Loc = "leftof"
	LocAfter    Loc = "after"
	LocBelow    Loc = "below"
	LocRightOf  Loc = "rightof"
	LocCenterOf Loc = "centerof"
	LocMirror   Loc = "mirror"
)

func normLoc(l Loc) Loc {
	switch l := Loc(strings.ToLower(strings.TrimSpace(string(l)))); l {
	case LocAbove, LocLeftOf:
		return LocBefore
	case LocBelow, LocRightOf:
		return LocAfter
	default:
		return l
	}
}

func validateLoc(axis Axis, l Loc) error {
	switch normLoc(l) {
	case LocNone, LocSameAs, LocBefore, LocAfter, LocCenterOf, LocMirror:
		return nil
	}
	if Align(normLoc(l)).Valid(axis) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidLocator, "invalid %s locator %q", axis, string(l))
}
