package layout

import (
	"strings"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/object"
)

// ObjectOpts configures a new object. Nil fields resolve from the layout's
// "<key>_<param>" and "<param>" attributes; the parameter name is noted on
// each field.
type ObjectOpts struct {
	// Parent receives the object. Nil resolves "parent", which may name a
	// root object; the figure container is used when nothing is set.
	Parent *object.Object

	Width   *float64      // width_mm
	Height  *float64      // height_mm
	AlignX  *object.Align // xalign
	AlignY  *object.Align // yalign
	OffsetX *float64      // xoffs_mm
	OffsetY *float64      // yoffs_mm
	Margin  *float64      // margin_mm
	Opacity *float64      // opacity

	// Draw is merged over the resolved "draw" attribute map.
	Draw attrs.Map
}

// CopyOpts configures a copy of an existing object.
type CopyOpts struct {
	// Shallow copies only the object itself, without children.
	Shallow bool

	// Key renames the copy. Empty keeps the source key base.
	Key string

	// Parent receives the copy. Nil uses the source's parent.
	Parent *object.Object

	LocX       *object.Loc // xloc, relative to the source
	LocY       *object.Loc // yloc
	AddOffsetX *float64    // add_xoffs_mm
	AddOffsetY *float64    // add_yoffs_mm
	Opacity    *float64    // new_opacity
	Width      *float64    // new_width_mm
	Height     *float64    // new_height_mm
	Margin     *float64    // new_margin_mm
	Scale      *float64    // scale

	// Draw is merged over the resolved "draw" attribute map.
	Draw attrs.Map
}

// PlaceOpts positions an object added to a group relative to the group's
// previous last child.
type PlaceOpts struct {
	LocX       *object.Loc // xloc
	LocY       *object.Loc // yloc
	AddOffsetX *float64    // add_xoffs_mm
	AddOffsetY *float64    // add_yoffs_mm
}

// Ptr returns a pointer to v, for filling options structs.
func Ptr[T any](v T) *T { return &v }

// AddObject creates the object key and inserts it into its parent.
func (b *Base) AddObject(key string, opts ObjectOpts) (*object.Object, error) {
	defer b.scope.Enter(key)()

	obj, err := b.newObject(key, opts)
	if err != nil {
		return nil, err
	}
	parent, err := b.resolveParent(opts.Parent)
	if err != nil {
		return nil, b.discard(obj, err)
	}
	if err := parent.Insert(obj); err != nil {
		return nil, b.discard(obj, err)
	}
	return obj, nil
}

// AddRootObject creates a figure-sized root object.
func (b *Base) AddRootObject(key string, opts ObjectOpts) (*object.Object, error) {
	size := b.host.Container().DeclaredSize()
	opts.Parent = b.host.Container()
	opts.Width = Ptr(size.X())
	opts.Height = Ptr(size.Y())
	return b.AddObject(key, opts)
}

// AddGroup creates a dynamically sized object keyed "<prefix>_group".
func (b *Base) AddGroup(prefix string, parent *object.Object, opts ObjectOpts) (*object.Object, error) {
	opts.Parent = parent
	return b.AddObject(strings.TrimSuffix(prefix, "_")+"_group", opts)
}

// AddToGroup creates the object key and places it into group.
func (b *Base) AddToGroup(key string, group *object.Object, opts ObjectOpts, place PlaceOpts) (*object.Object, error) {
	release := b.scope.Enter(key)
	obj, err := b.newObject(key, opts)
	release()
	if err != nil {
		return nil, err
	}
	if err := b.PlaceInGroup(group, obj, place); err != nil {
		return nil, b.discard(obj, err)
	}
	return obj, nil
}

// PlaceInGroup moves obj into group. When the group already has children,
// obj is positioned relative to the last one.
func (b *Base) PlaceInGroup(group, obj *object.Object, place PlaceOpts) error {
	if group == nil {
		return errors.New(errors.ErrCodeNotFound, "no group to place %q in", obj.Key())
	}
	defer b.scope.Enter(object.KeyBase(obj.Key()))()

	locX := b.resolveLoc("xloc", place.LocX)
	locY := b.resolveLoc("yloc", place.LocY)
	addX := b.resolveFloat("add_xoffs_mm", place.AddOffsetX, 0)
	addY := b.resolveFloat("add_yoffs_mm", place.AddOffsetY, 0)

	prev := group.LastChild()
	if err := group.Insert(obj); err != nil {
		return err
	}
	if prev == nil {
		return nil
	}
	return obj.PositionRelativeTo(prev, locX, locY, addX, addY)
}

// AddObjectCopy copies src, deep unless opts.Shallow, and inserts the copy.
// The copy is scaled, resized and positioned relative to src.
func (b *Base) AddObjectCopy(src *object.Object, opts CopyOpts) (*object.Object, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no object to copy")
	}
	copyFn := src.DeepCopy
	if opts.Shallow {
		copyFn = src.Copy
	}
	obj, err := copyFn()
	if err != nil {
		return nil, err
	}
	key := object.KeyBase(src.Key())
	if opts.Key != "" {
		key = opts.Key
		if err := obj.SetKey(key); err != nil {
			return nil, b.discard(obj, err)
		}
	}
	defer b.scope.Enter(key)()

	if v := attrs.ResolveFloat(b.scope, "new_opacity", opts.Opacity); v != nil {
		obj.SetOpacity(*v)
	}
	obj.Scale(b.resolveFloat("scale", opts.Scale, 1))
	if v := attrs.ResolveFloat(b.scope, "new_width_mm", opts.Width); v != nil {
		obj.SetSizeAxis(object.AxisX, *v)
	}
	if v := attrs.ResolveFloat(b.scope, "new_height_mm", opts.Height); v != nil {
		obj.SetSizeAxis(object.AxisY, *v)
	}
	if v := attrs.ResolveFloat(b.scope, "new_margin_mm", opts.Margin); v != nil {
		obj.SetMargin(*v)
	}

	parent := opts.Parent
	if parent == nil {
		parent = src.Parent()
	}
	if parent == nil {
		parent = b.host.Container()
	}
	if err := parent.Insert(obj); err != nil {
		return nil, b.discard(obj, err)
	}

	locX := b.resolveLoc("xloc", opts.LocX)
	locY := b.resolveLoc("yloc", opts.LocY)
	addX := b.resolveFloat("add_xoffs_mm", opts.AddOffsetX, 0)
	addY := b.resolveFloat("add_yoffs_mm", opts.AddOffsetY, 0)
	if err := obj.PositionRelativeTo(src, locX, locY, addX, addY); err != nil {
		return nil, b.discard(obj, err)
	}
	if err := obj.SetDrawAttrs(b.scope.ResolveMap("draw", opts.Draw)); err != nil {
		return nil, b.discard(obj, err)
	}
	return obj, nil
}

// newObject builds a detached object. The caller has entered the scope.
func (b *Base) newObject(key string, opts ObjectOpts) (*object.Object, error) {
	alignX, err := b.resolveAlign(object.AxisX, "xalign", opts.AlignX)
	if err != nil {
		return nil, err
	}
	alignY, err := b.resolveAlign(object.AxisY, "yalign", opts.AlignY)
	if err != nil {
		return nil, err
	}
	opacity := b.resolveFloat("opacity", opts.Opacity, 1)
	return b.host.Arena().New(object.Params{
		Key:     key,
		Width:   b.resolveFloat("width_mm", opts.Width, 0),
		Height:  b.resolveFloat("height_mm", opts.Height, 0),
		Margin:  b.resolveFloat("margin_mm", opts.Margin, 0),
		AlignX:  alignX,
		AlignY:  alignY,
		OffsetX: b.resolveFloat("xoffs_mm", opts.OffsetX, 0),
		OffsetY: b.resolveFloat("yoffs_mm", opts.OffsetY, 0),
		Opacity: &opacity,
		Draw:    b.scope.ResolveMap("draw", opts.Draw),
	})
}

func (b *Base) resolveParent(explicit *object.Object) (*object.Object, error) {
	if explicit != nil {
		return explicit, nil
	}
	name := attrs.ResolveString(b.scope, "parent", nil)
	if name == nil || *name == "" {
		return b.host.Container(), nil
	}
	if p := b.Root(*name); p != nil {
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "parent root object %q not found", *name)
}

func (b *Base) resolveFloat(param string, explicit *float64, def float64) float64 {
	if v := attrs.ResolveFloat(b.scope, param, explicit); v != nil {
		return *v
	}
	return def
}

func (b *Base) resolveAlign(axis object.Axis, param string, explicit *object.Align) (object.Align, error) {
	var e *string
	if explicit != nil {
		s := string(*explicit)
		e = &s
	}
	s := attrs.ResolveString(b.scope, param, e)
	if s == nil {
		return object.DefaultAlign(axis), nil
	}
	return object.ParseAlign(axis, *s)
}

func (b *Base) resolveLoc(param string, explicit *object.Loc) object.Loc {
	var e *string
	if explicit != nil {
		s := string(*explicit)
		e = &s
	}
	if s := attrs.ResolveString(b.scope, param, e); s != nil {
		return object.Loc(*s)
	}
	return object.LocNone
}

// discard releases an object that could not be added and returns err.
func (b *Base) discard(obj *object.Object, err error) error {
	if rerr := b.host.Arena().Release(obj); rerr != nil {
		b.Logger().Warn("release failed object", "key", obj.Key(), "err", rerr)
	}
	return err
}
