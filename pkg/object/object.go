package object

import (
	"fmt"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/units"
)

// Params describes a new object. Zero values select the defaults: dynamic
// size, no margin, left/top alignment, no offset, full opacity, the arena's
// resolution.
type Params struct {
	Key           string
	Width, Height float64
	Margin        float64
	AlignX        Align
	AlignY        Align
	OffsetX       float64
	OffsetY       float64
	Opacity       *float64
	PPI           float64

	// Draw holds draw attributes; "effect_<kind>" entries become effects.
	Draw attrs.Map
}

// Object is a node of the figure tree.
type Object struct {
	arena *Arena
	id    ID
	key   string

	size    units.Vec
	margin  float64
	align   [2]Align
	offset  units.Vec
	opacity float64
	ppi     float64

	parent    ID
	children  []ID
	index     map[string]ID
	depth     int
	container bool

	draw   *drawState
	handle Handle
	shared *shared
}

// ID returns the object's arena id.
func (o *Object) ID() ID { return o.id }

// Arena returns the arena owning o.
func (o *Object) Arena() *Arena { return o.arena }

// Key returns the object's key, unique among its siblings.
func (o *Object) Key() string { return o.key }

// Handle returns the backend draw handle.
func (o *Object) Handle() Handle { return o.handle }

// PPI returns the object's resolution in pixels per inch.
func (o *Object) PPI() float64 { return o.ppi }

// Opacity returns the opacity in [0, 1].
func (o *Object) Opacity() float64 { return o.opacity }

// Margin returns the margin in millimeters.
func (o *Object) Margin() float64 { return o.margin }

// Offset returns the offset in millimeters.
func (o *Object) Offset() units.Vec { return o.offset }

// Align returns the alignment on axis.
func (o *Object) Align(axis Axis) Align { return o.align[axis] }

// DeclaredSize returns the size as set, with 0 for dynamic axes.
func (o *Object) DeclaredSize() units.Vec { return o.size }

// IsContainer reports whether o is a figure container.
func (o *Object) IsContainer() bool { return o.container }

// SetKey renames o. An attached object must not collide with a sibling.
func (o *Object) SetKey(key string) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	if key == o.key {
		return nil
	}
	if p := o.Parent(); p != nil {
		if _, taken := p.index[key]; taken {
			return errors.New(errors.ErrCodeDuplicate, "key %q already used under %q", key, p.key)
		}
		delete(p.index, o.key)
		p.index[key] = o.id
	}
	o.key = key
	return nil
}

// SetSize sets the declared size. 0 makes an axis dynamic.
func (o *Object) SetSize(width, height float64) {
	o.size = units.Vec{width, height}
}

// SetSizeAxis sets the declared size on one axis.
func (o *Object) SetSizeAxis(axis Axis, v float64) {
	o.size[axis] = v
}

// SetMargin sets the margin.
func (o *Object) SetMargin(mm float64) {
	o.margin = mm
}

// SetOffset sets the offset.
func (o *Object) SetOffset(x, y float64) {
	o.offset = units.Vec{x, y}
}

// SetOffsetAxis sets the offset on one axis.
func (o *Object) SetOffsetAxis(axis Axis, v float64) {
	o.offset[axis] = v
}

// AddOffset shifts the object.
func (o *Object) AddOffset(dx, dy float64) {
	o.offset = o.offset.Add(units.Vec{dx, dy})
}

// SetOpacity sets the opacity, clamped to [0, 1].
func (o *Object) SetOpacity(v float64) {
	o.opacity = clampOpacity(v)
}

// SetPPI sets the resolution of o and its whole subtree.
func (o *Object) SetPPI(ppi float64) {
	o.Walk(func(n *Object) bool {
		n.ppi = ppi
		return true
	})
}

// SetAlign sets the alignment on axis. An invalid value is rejected and the
// previous alignment kept.
func (o *Object) SetAlign(axis Axis, a Align) error {
	if !a.Valid(axis) {
		return errors.New(errors.ErrCodeInvalidAlignment, "invalid %s alignment %q for %q", axis, string(a), o.key)
	}
	o.align[axis] = a
	return nil
}

// SetAligns sets both alignments. Empty values leave an axis unchanged.
// Nothing changes unless both values are valid.
func (o *Object) SetAligns(x, y Align) error {
	if x != "" && !x.Valid(AxisX) {
		return errors.New(errors.ErrCodeInvalidAlignment, "invalid x alignment %q for %q", string(x), o.key)
	}
	if y != "" && !y.Valid(AxisY) {
		return errors.New(errors.ErrCodeInvalidAlignment, "invalid y alignment %q for %q", string(y), o.key)
	}
	if x != "" {
		o.align[AxisX] = x
	}
	if y != "" {
		o.align[AxisY] = y
	}
	return nil
}

// FlipAlign mirrors the alignment on axis.
func (o *Object) FlipAlign(axis Axis) {
	o.align[axis] = o.align[axis].Flip()
}

// String returns "[id] key: WxH+X+Y" in millimeters.
func (o *Object) String() string {
	s := o.Size()
	b := o.AbsBegin()
	return fmt.Sprintf("[%d] %s: %gx%g+%g+%g", o.id, o.key, s[0], s[1], b[0], b[1])
}

func clampOpacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Effects returns o's effects in application order.
func (o *Object) Effects() []effect.Effect {
	return o.draw.effects.All()
}
