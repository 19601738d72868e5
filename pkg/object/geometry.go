package object

import (
	"github.com/matzehuels/cardstack/pkg/units"
)

// Size returns the effective size. A dynamic axis spans the bounding box of
// the children: the maximum of child size plus child offset, never below 0.
func (o *Object) Size() units.Vec {
	var s units.Vec
	for axis := AxisX; axis <= AxisY; axis++ {
		if o.size[axis] != 0 {
			s[axis] = o.size[axis]
			continue
		}
		s[axis] = o.dynamicSize(axis)
	}
	return s
}

func (o *Object) dynamicSize(axis Axis) float64 {
	var best float64
	for _, id := range o.children {
		c := o.arena.nodes[id]
		if v := c.Size()[axis] + c.offset[axis]; v > best {
			best = v
		}
	}
	return best
}

// Width returns the effective width.
func (o *Object) Width() float64 { return o.Size()[AxisX] }

// Height returns the effective height.
func (o *Object) Height() float64 { return o.Size()[AxisY] }

// CanvasBegin returns the top-left corner of the drawable area, relative to
// the object itself.
func (o *Object) CanvasBegin() units.Vec {
	return units.Vec{o.margin, o.margin}
}

// CanvasEnd returns the bottom-right corner of the drawable area.
func (o *Object) CanvasEnd() units.Vec {
	return o.Size().Sub(units.Vec{o.margin, o.margin})
}

// CanvasSize returns the size of the drawable area.
func (o *Object) CanvasSize() units.Vec {
	return o.Size().Sub(units.Vec{2 * o.margin, 2 * o.margin})
}

// anchor returns where an object of size s with alignment a begins on axis
// inside o's canvas, before its offset is applied.
func (o *Object) anchor(axis Axis, a Align, s float64) float64 {
	pb := o.CanvasBegin()[axis]
	switch {
	case a.begin():
		return pb
	case a.end():
		return o.CanvasEnd()[axis] - s
	default:
		return pb + (o.CanvasSize()[axis]-s)/2
	}
}

// RelBegin returns the position inside the parent. A parentless object is at
// the origin.
func (o *Object) RelBegin() units.Vec {
	p := o.Parent()
	if p == nil {
		return units.Vec{}
	}
	s := o.Size()
	var v units.Vec
	for axis := AxisX; axis <= AxisY; axis++ {
		v[axis] = o.offset[axis] + p.anchor(axis, o.align[axis], s[axis])
	}
	return v
}

// RelEnd returns RelBegin plus Size.
func (o *Object) RelEnd() units.Vec {
	return o.RelBegin().Add(o.Size())
}

// AbsBegin returns the position in root coordinates. Roots, including the
// children of a container, are at the origin whatever their offset.
func (o *Object) AbsBegin() units.Vec {
	p := o.Parent()
	if p == nil || o.IsRoot() {
		return units.Vec{}
	}
	return p.AbsBegin().Add(o.RelBegin())
}

// AbsEnd returns AbsBegin plus Size.
func (o *Object) AbsEnd() units.Vec {
	return o.AbsBegin().Add(o.Size())
}

// RootBegin returns the position relative to o's root object, which is the
// coordinate system of the root's shared backend resource.
func (o *Object) RootBegin() units.Vec {
	return o.AbsBegin().Sub(o.Root().AbsBegin())
}

// SizePx returns Size in pixels.
func (o *Object) SizePx() [2]int { return o.Size().Px(o.ppi) }

// MarginPx returns the margin in pixels.
func (o *Object) MarginPx() int { return units.MMToPx(o.margin, o.ppi) }

// CanvasBeginPx returns CanvasBegin in pixels.
func (o *Object) CanvasBeginPx() [2]int { return o.CanvasBegin().Px(o.ppi) }

// CanvasSizePx returns CanvasSize in pixels.
func (o *Object) CanvasSizePx() [2]int { return o.CanvasSize().Px(o.ppi) }

// AbsBeginPx returns AbsBegin in pixels.
func (o *Object) AbsBeginPx() [2]int { return o.AbsBegin().Px(o.ppi) }

// RootBeginPx returns RootBegin in pixels.
func (o *Object) RootBeginPx() [2]int { return o.RootBegin().Px(o.ppi) }
