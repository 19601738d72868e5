package object

import (
	"math"
	"testing"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/units"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCopyKeepsDeclaredState(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "front"})
	icon := mustNew(t, a, Params{Key: "icon", Width: 5, Height: 6, AlignX: AlignRight, OffsetX: 1})
	mustInsert(t, parent, icon)
	mustInsert(t, parent, mustNew(t, a, Params{Key: "icon"}))
	_ = icon.AddEffect(effect.KindFill, "color", attrs.Map{"color": "red"})
	icon.SetOpacity(0.5)

	c, err := parent.Child("icon_2").Copy()
	if err != nil {
		t.Fatal(err)
	}
	if c.Key() != "icon" {
		t.Errorf("Copy().Key() = %q, want icon", c.Key())
	}
	mustInsert(t, parent, c)
	if c.Key() != "icon_3" {
		t.Errorf("inserted copy key = %q, want icon_3", c.Key())
	}

	c2, _ := icon.Copy()
	if c2.DeclaredSize() != (units.Vec{5, 6}) || c2.Align(AxisX) != AlignRight || c2.Opacity() != 0.5 {
		t.Errorf("copy = %v align %v opacity %v", c2, c2.Align(AxisX), c2.Opacity())
	}
	c2.SetEffectArgs(effect.KindFill, attrs.Map{"color": "blue"})
	if e, _ := icon.Effect(effect.KindFill); e.Text("color") != "red" {
		t.Errorf("original fill = %q, want red", e.Text("color"))
	}
}

func TestDeepCopy(t *testing.T) {
	a := NewArena(ArenaOptions{})
	root := mustNew(t, a, Params{Key: "front"})
	g := mustNew(t, a, Params{Key: "group"})
	mustInsert(t, root, g)
	mustInsert(t, g, mustNew(t, a, Params{Key: "icon", Width: 3, Height: 3}))
	mustInsert(t, g, mustNew(t, a, Params{Key: "icon", Width: 3, Height: 3, OffsetX: 3}))

	c, err := root.DeepCopy()
	if err != nil {
		t.Fatal(err)
	}
	if c.Find("icon", 1) == nil || c.Find("icon", 1) == root.Find("icon", 1) {
		t.Error("deep copy should hold its own icon_2")
	}
	if got := c.Size(); got != (units.Vec{6, 3}) {
		t.Errorf("copy Size() = %v, want [6 3]", got)
	}
	if a.Len() != 8 {
		t.Errorf("arena Len() = %d, want 8", a.Len())
	}
}

func TestScale(t *testing.T) {
	a := NewArena(ArenaOptions{})
	root := mustNew(t, a, Params{Key: "root", Width: 10, Height: 20, Margin: 1, OffsetX: 2, OffsetY: 2})
	child := mustNew(t, a, Params{Key: "child", Width: 4, Height: 4, OffsetX: 1, OffsetY: 1})
	mustInsert(t, root, child)
	_ = root.AddEffect(effect.KindText, "", attrs.Map{"size_pt": 12})
	_ = child.AddEffect(effect.KindShear, "", attrs.Map{"mag_x": 0.5})

	root.Scale(2)

	if root.DeclaredSize() != (units.Vec{20, 40}) || root.Margin() != 2 {
		t.Errorf("root = %v margin %v", root.DeclaredSize(), root.Margin())
	}
	if root.Offset() != (units.Vec{2, 2}) {
		t.Errorf("root Offset() = %v, want unchanged [2 2]", root.Offset())
	}
	if child.DeclaredSize() != (units.Vec{8, 8}) || child.Offset() != (units.Vec{2, 2}) {
		t.Errorf("child = %v offset %v", child.DeclaredSize(), child.Offset())
	}
	if e, _ := root.Effect(effect.KindText); e.Float("size_pt") != 24 {
		t.Errorf("size_pt = %v, want 24", e.Float("size_pt"))
	}
	if e, _ := child.Effect(effect.KindShear); e.Float("mag_x") != 1 {
		t.Errorf("mag_x = %v, want 1", e.Float("mag_x"))
	}
}

func TestSetSizeFrom(t *testing.T) {
	a := NewArena(ArenaOptions{})
	ref := mustNew(t, a, Params{Key: "ref", Width: 10, Height: 4, Margin: 1})
	o := mustNew(t, a, Params{Key: "o"})

	o.SetSizeFrom(ref, true, 0.5)
	if o.DeclaredSize() != (units.Vec{5, 2}) || o.Margin() != 0.5 {
		t.Errorf("size %v margin %v", o.DeclaredSize(), o.Margin())
	}
	o.SetSizeFrom(ref, false, 1)
	if o.DeclaredSize() != (units.Vec{10, 4}) || o.Margin() != 0.5 {
		t.Errorf("size %v margin %v", o.DeclaredSize(), o.Margin())
	}
}

func TestFontSizeHelpers(t *testing.T) {
	a := NewArena(ArenaOptions{})
	o := mustNew(t, a, Params{Key: "label", Width: 30, Height: 25.4})

	if _, ok := o.SetFontSizeFromObject(); ok {
		t.Error("SetFontSizeFromObject without text effect should report false")
	}
	_ = o.AddEffect(effect.KindText, "", attrs.Map{"text": "A"})
	pt, ok := o.SetFontSizeFromObject()
	if !ok || !approx(pt, 72) {
		t.Errorf("SetFontSizeFromObject() = %v, %v, want 72", pt, ok)
	}

	if !o.SetSizeFromFontSize() {
		t.Fatal("SetSizeFromFontSize() = false")
	}
	got := o.DeclaredSize()
	if !approx(got.X(), 48.5*25.4/72) || !approx(got.Y(), 25.4) {
		t.Errorf("size = %v", got)
	}
}
