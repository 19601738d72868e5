package object

import (
	"testing"

	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/units"
)

func mustNew(t *testing.T, a *Arena, p Params) *Object {
	t.Helper()
	o, err := a.New(p)
	if err != nil {
		t.Fatalf("New(%q) error: %v", p.Key, err)
	}
	return o
}

func mustInsert(t *testing.T, parent, child *Object) {
	t.Helper()
	if err := parent.Insert(child); err != nil {
		t.Fatalf("Insert(%q into %q) error: %v", child.Key(), parent.Key(), err)
	}
}

func TestAlignmentResolution(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "card", Width: 50, Height: 50})
	child := mustNew(t, a, Params{Key: "icon", Width: 10, Height: 10, AlignX: AlignRight, AlignY: AlignTop, OffsetX: -2})
	mustInsert(t, parent, child)

	if got := child.RelBegin(); got != (units.Vec{38, 0}) {
		t.Errorf("RelBegin() = %v, want [38 0]", got)
	}
}

func TestGeometryWithMargin(t *testing.T) {
	a := NewArena(ArenaOptions{})
	root := mustNew(t, a, Params{Key: "card", Width: 60, Height: 90, Margin: 5})
	mid := mustNew(t, a, Params{Key: "mid", Width: 20, Height: 10, AlignX: AlignCenter, AlignY: AlignBottom, Margin: 1})
	leaf := mustNew(t, a, Params{Key: "leaf", Width: 4, Height: 4, OffsetX: 1, OffsetY: 1})
	mustInsert(t, root, mid)
	mustInsert(t, mid, leaf)

	tests := []struct {
		name string
		got  units.Vec
		want units.Vec
	}{
		{"root canvas begin", root.CanvasBegin(), units.Vec{5, 5}},
		{"root canvas end", root.CanvasEnd(), units.Vec{55, 85}},
		{"root canvas size", root.CanvasSize(), units.Vec{50, 80}},
		{"root abs begin", root.AbsBegin(), units.Vec{0, 0}},
		{"mid rel begin", mid.RelBegin(), units.Vec{20, 75}},
		{"mid abs end", mid.AbsEnd(), units.Vec{40, 85}},
		{"leaf abs begin", leaf.AbsBegin(), units.Vec{22, 77}},
		{"leaf root begin", leaf.RootBegin(), units.Vec{22, 77}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestDynamicGroupSize(t *testing.T) {
	a := NewArena(ArenaOptions{})
	group := mustNew(t, a, Params{Key: "group"})
	mustInsert(t, group, mustNew(t, a, Params{Key: "a", Width: 20, Height: 5}))
	mustInsert(t, group, mustNew(t, a, Params{Key: "b", Width: 10, Height: 5, OffsetX: 15, OffsetY: 3}))

	if got := group.Size(); got != (units.Vec{25, 8}) {
		t.Errorf("Size() = %v, want [25 8]", got)
	}

	group.SetSizeAxis(AxisX, 40)
	if got := group.Width(); got != 40 {
		t.Errorf("declared Width() = %v, want 40", got)
	}

	empty := mustNew(t, a, Params{Key: "empty"})
	if got := empty.Size(); got != (units.Vec{}) {
		t.Errorf("empty Size() = %v, want [0 0]", got)
	}
}

func TestPixelGeometry(t *testing.T) {
	a := NewArena(ArenaOptions{PPI: 300})
	o := mustNew(t, a, Params{Key: "o", Width: 10, Height: 25.4, Margin: 1})

	if got := o.SizePx(); got != [2]int{118, 300} {
		t.Errorf("SizePx() = %v, want [118 300]", got)
	}
	if got := o.MarginPx(); got != 11 {
		t.Errorf("MarginPx() = %v, want 11", got)
	}
	if o.PPI() != 300 {
		t.Errorf("PPI() = %v, want 300", o.PPI())
	}
}

func TestInvalidAlignmentKeepsPrevious(t *testing.T) {
	a := NewArena(ArenaOptions{})
	o := mustNew(t, a, Params{Key: "o", AlignX: AlignRight})

	err := o.SetAlign(AxisX, AlignTop)
	if !errors.Is(err, errors.ErrCodeInvalidAlignment) {
		t.Fatalf("SetAlign(x, top) error = %v, want INVALID_ALIGNMENT", err)
	}
	if o.Align(AxisX) != AlignRight {
		t.Errorf("Align(x) = %v, want right", o.Align(AxisX))
	}

	if err := o.SetAligns(AlignCenter, "sideways"); err == nil {
		t.Fatal("SetAligns with invalid y should fail")
	}
	if o.Align(AxisX) != AlignRight {
		t.Errorf("SetAligns changed x on failure: %v", o.Align(AxisX))
	}

	if _, err := a.New(Params{Key: "bad", AlignY: "left"}); !errors.Is(err, errors.ErrCodeInvalidAlignment) {
		t.Errorf("New with bad alignment error = %v", err)
	}
}

func TestPositionRelativeTo(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "p", Width: 100, Height: 100})
	ref := mustNew(t, a, Params{Key: "ref", Width: 20, Height: 10, OffsetX: 5, OffsetY: 7})
	o := mustNew(t, a, Params{Key: "o", Width: 10, Height: 4})
	mustInsert(t, parent, ref)
	mustInsert(t, parent, o)

	tests := []struct {
		name       string
		locX, locY Loc
		extraX     float64
		wantBegin  units.Vec
		wantAlignX Align
	}{
		{"sameas", LocSameAs, LocSameAs, 0, units.Vec{5, 7}, AlignLeft},
		{"leftof above", LocLeftOf, LocAbove, 0, units.Vec{-5, 3}, AlignLeft},
		{"rightof below", LocRightOf, LocBelow, 1, units.Vec{26, 17}, AlignLeft},
		{"centerof", LocCenterOf, LocCenterOf, 0, units.Vec{10, 10}, AlignLeft},
		{"mirror", LocMirror, LocNone, 0, units.Vec{85, 10}, AlignRight},
		{"explicit", Loc(AlignCenter), Loc(AlignBottom), 2, units.Vec{47, 96}, AlignCenter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := o.PositionRelativeTo(ref, tt.locX, tt.locY, tt.extraX, 0); err != nil {
				t.Fatalf("PositionRelativeTo() error: %v", err)
			}
			if got := o.RelBegin(); got != tt.wantBegin {
				t.Errorf("RelBegin() = %v, want %v", got, tt.wantBegin)
			}
			if o.Align(AxisX) != tt.wantAlignX {
				t.Errorf("Align(x) = %v, want %v", o.Align(AxisX), tt.wantAlignX)
			}
		})
	}
}

func TestPositionRelativeToAlignedRef(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "p", Width: 100, Height: 100})
	ref := mustNew(t, a, Params{
		Key: "ref", Width: 20, Height: 10,
		AlignX: AlignRight, AlignY: AlignCenter, OffsetX: -2, OffsetY: 3,
	})
	o := mustNew(t, a, Params{Key: "o", Width: 6, Height: 4})
	mustInsert(t, parent, ref)
	mustInsert(t, parent, o)

	tests := []struct {
		name       string
		locX, locY Loc
		extraX     float64
		extraY     float64
		wantOffset units.Vec
	}{
		{"after centerof", LocAfter, LocCenterOf, 0, 0, units.Vec{18, 6}},
		{"before above", LocBefore, LocAbove, 0, 0, units.Vec{-8, -1}},
		{"centerof below", LocCenterOf, LocBelow, 0, 0, units.Vec{5, 13}},
		{"extras", LocRightOf, LocAbove, 1.5, -2, units.Vec{19.5, -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := o.PositionRelativeTo(ref, tt.locX, tt.locY, tt.extraX, tt.extraY); err != nil {
				t.Fatalf("PositionRelativeTo() error: %v", err)
			}
			if got := o.Offset(); got != tt.wantOffset {
				t.Errorf("offsets = %v, want %v", got, tt.wantOffset)
			}
			if o.Align(AxisX) != AlignRight || o.Align(AxisY) != AlignCenter {
				t.Errorf("aligns = %v %v, want ref's right center", o.Align(AxisX), o.Align(AxisY))
			}
		})
	}
}

func TestRootAbsBeginIgnoresOffset(t *testing.T) {
	a := NewArena(ArenaOptions{})
	c, err := a.NewContainer("figure", 60, 90)
	if err != nil {
		t.Fatal(err)
	}
	root := mustNew(t, a, Params{Key: "front", Width: 60, Height: 90, OffsetX: 4, OffsetY: 7})
	leaf := mustNew(t, a, Params{Key: "leaf", Width: 4, Height: 4, OffsetX: 1, OffsetY: 2})
	mustInsert(t, c, root)
	mustInsert(t, root, leaf)

	if got := root.AbsBegin(); got != (units.Vec{}) {
		t.Errorf("root AbsBegin() = %v, want origin", got)
	}
	if got := leaf.AbsBegin(); got != (units.Vec{1, 2}) {
		t.Errorf("leaf AbsBegin() = %v, want [1 2]", got)
	}
	if got := leaf.RootBegin(); got != (units.Vec{1, 2}) {
		t.Errorf("leaf RootBegin() = %v, want [1 2]", got)
	}
}

func TestPositionRelativeToInvalidLocator(t *testing.T) {
	a := NewArena(ArenaOptions{})
	ref := mustNew(t, a, Params{Key: "ref"})
	o := mustNew(t, a, Params{Key: "o", OffsetX: 3})

	err := o.PositionRelativeTo(ref, LocSameAs, "top", 0, 0)
	if err != nil {
		t.Fatalf("y=top should be a valid locator: %v", err)
	}
	err = o.PositionRelativeTo(ref, "top", LocNone, 0, 0)
	if !errors.Is(err, errors.ErrCodeInvalidLocator) {
		t.Errorf("x=top error = %v, want INVALID_LOCATOR", err)
	}
}
