package object

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/units"
)

// Copy returns a detached copy of o: geometry, opacity, resolution, effects
// and draw attributes, without children. The copy is keyed by o's key base
// so inserting it next to o numbers it.
func (o *Object) Copy() (*Object, error) {
	opacity := o.opacity
	c, err := o.arena.alloc(Params{
		Key:     KeyBase(o.key),
		Width:   o.size[AxisX],
		Height:  o.size[AxisY],
		Margin:  o.margin,
		AlignX:  o.align[AxisX],
		AlignY:  o.align[AxisY],
		OffsetX: o.offset[AxisX],
		OffsetY: o.offset[AxisY],
		Opacity: &opacity,
		PPI:     o.ppi,
	})
	if err != nil {
		return nil, err
	}
	c.draw = o.draw.clone()
	return c, nil
}

// DeepCopy returns a detached copy of o's whole subtree.
func (o *Object) DeepCopy() (*Object, error) {
	c, err := o.Copy()
	if err != nil {
		return nil, err
	}
	for _, child := range o.Children() {
		cc, err := child.DeepCopy()
		if err != nil {
			return nil, err
		}
		if err := c.Insert(cc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Scale multiplies sizes, margins and scalable effect arguments of o's
// subtree by f. Offsets are scaled for every object below o, and for o
// itself unless it is a root.
func (o *Object) Scale(f float64) {
	if f == 1 {
		return
	}
	o.scale(f, o.IsRoot())
}

func (o *Object) scale(f float64, keepOffset bool) {
	o.size = o.size.Scale(f)
	o.margin *= f
	if !keepOffset {
		o.offset = o.offset.Scale(f)
	}
	o.scaleEffectArg(effect.KindText, "size_pt", f)
	o.scaleEffectArg(effect.KindShear, "mag_x", f)
	o.scaleEffectArg(effect.KindShear, "mag_y", f)
	for _, c := range o.Children() {
		c.scale(f, false)
	}
}

func (o *Object) scaleEffectArg(kind effect.Kind, name string, f float64) {
	e, ok := o.draw.effects.Get(kind)
	if !ok {
		return
	}
	if v := e.Float(name); v != 0 {
		o.draw.effects.SetArgs(kind, attrs.Map{name: v * f})
	}
}

// SetSizeFrom copies ref's effective size, and its margin when withMargin is
// set, then multiplies by scale.
func (o *Object) SetSizeFrom(ref *Object, withMargin bool, scale float64) {
	s := ref.Size()
	if withMargin {
		o.margin = ref.margin
	}
	o.size = s
	if scale != 1 && scale != 0 {
		o.size = o.size.Scale(scale)
		o.margin *= scale
	}
}

// SetFontSizeFromObject sets the text size to the canvas height and returns
// it in points. It returns false when o has no text effect.
func (o *Object) SetFontSizeFromObject() (float64, bool) {
	if _, ok := o.draw.effects.Get(effect.KindText); !ok {
		return 0, false
	}
	pt := units.MMToPt(o.CanvasSize()[AxisY])
	o.draw.effects.SetArgs(effect.KindText, attrs.Map{"size_pt": pt})
	return pt, true
}

// SetSizeFromFontSize sizes o to fit one glyph of its text size. It returns
// false when o has no text effect with a size.
func (o *Object) SetSizeFromFontSize() bool {
	e, ok := o.draw.effects.Get(effect.KindText)
	if !ok {
		return false
	}
	pt := e.Float("size_pt")
	if pt == 0 {
		return false
	}
	o.size = units.Vec{units.PtToMM(pt/1.5 + 0.5), units.PtToMM(pt)}
	return true
}
