package object

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
)

type drawState struct {
	effects effect.List
	attrs   *attrs.Bag
}

func newDrawState() *drawState {
	return &drawState{attrs: attrs.NewBag(nil, nil)}
}

func (d *drawState) clone() *drawState {
	return &drawState{effects: d.effects.Clone(), attrs: d.attrs.Clone()}
}

// shared is a root's backend resource. Descendants hold the same pointer.
type shared struct {
	value any
	owner ID
}

// Shared returns the backend resource of o's root, creating it on first use.
func (o *Object) Shared() (any, error) {
	if o.shared != nil {
		return o.shared.value, nil
	}
	root := o.Root()
	if root.shared == nil {
		v, err := o.arena.backend.CreateShared(root)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBackend, err, "create shared resource for %q", root.key)
		}
		root.shared = &shared{value: v, owner: root.id}
		o.arena.logger.Debug("created shared resource", "root", root.key, "backend", o.arena.backend.Name())
	}
	o.shared = root.shared
	return o.shared.value, nil
}

// OwnsShared reports whether o created the shared resource it holds.
func (o *Object) OwnsShared() bool {
	return o.shared != nil && o.shared.owner == o.id
}

func (o *Object) relinkShared() {
	if o.shared != nil {
		if o.shared.owner == o.id && o.IsRoot() {
			return
		}
		o.releaseShared()
	}
	if !o.IsRoot() {
		if r := o.Root(); r.shared != nil {
			o.shared = r.shared
		}
	}
}

// releaseShared releases the resource when o owns it and unlinks it either
// way.
func (o *Object) releaseShared() {
	if o.OwnsShared() {
		o.arena.backend.ReleaseShared(o, o.shared.value)
		o.arena.logger.Debug("released shared resource", "root", o.key, "backend", o.arena.backend.Name())
	}
	o.shared = nil
}

// AddEffect attaches an effect, replacing any effect of the same kind. The
// backend's defaults for the pair are merged under args.
func (o *Object) AddEffect(kind effect.Kind, variant string, args attrs.Map) error {
	err := o.draw.effects.Add(effect.Effect{Kind: kind, Variant: variant, Args: args}, o.arena.backend.Defaults)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "add effect to %q", o.key)
	}
	return nil
}

// Effect returns the effect of kind.
func (o *Object) Effect(kind effect.Kind) (effect.Effect, bool) {
	return o.draw.effects.Get(kind)
}

// SetEffectArgs merges args onto the effect of kind. It reports whether the
// effect exists.
func (o *Object) SetEffectArgs(kind effect.Kind, args attrs.Map) bool {
	return o.draw.effects.SetArgs(kind, args)
}

// RemoveEffect detaches the effect of kind.
func (o *Object) RemoveEffect(kind effect.Kind) bool {
	return o.draw.effects.Remove(kind)
}

// AddEffectFrom copies ref's effect of kind onto o with args merged on top.
// Nothing happens when ref has no such effect.
func (o *Object) AddEffectFrom(ref *Object, kind effect.Kind, args attrs.Map) error {
	e, ok := ref.Effect(kind)
	if !ok {
		return nil
	}
	return o.AddEffect(kind, e.Variant, attrs.MergeMaps(e.Args, args))
}

// AddEffectsFrom copies all of ref's effects onto o, then applies the draw
// attributes in extra.
func (o *Object) AddEffectsFrom(ref *Object, extra attrs.Map) error {
	for _, e := range ref.Effects() {
		if err := o.AddEffect(e.Kind, e.Variant, e.Args); err != nil {
			return err
		}
	}
	return o.SetDrawAttrs(extra)
}

// SetDrawAttrs applies draw attributes. "effect_<kind>" entries add or
// update effects; an entry with the same or no "type" as the attached effect
// updates its arguments, a nil entry removes it. Other keys are merged into
// the draw attribute bag.
func (o *Object) SetDrawAttrs(m attrs.Map) error {
	ch, rest, err := effect.FromAttrs(m)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "draw attributes of %q", o.key)
	}
	for _, k := range ch.Remove {
		o.draw.effects.Remove(k)
	}
	for _, e := range ch.Set {
		if cur, ok := o.draw.effects.Get(e.Kind); ok && (e.Variant == "" || e.Variant == cur.Variant) {
			o.draw.effects.SetArgs(e.Kind, e.Args)
			continue
		}
		if err := o.AddEffect(e.Kind, e.Variant, e.Args); err != nil {
			return err
		}
	}
	o.draw.attrs.Update(rest)
	return nil
}

// SetDrawFrom replaces o's effects and draw attributes with copies of ref's,
// then applies extra.
func (o *Object) SetDrawFrom(ref *Object, extra attrs.Map) error {
	o.draw = ref.draw.clone()
	return o.SetDrawAttrs(extra)
}

// DrawAttr returns a non-effect draw attribute, or nil.
func (o *Object) DrawAttr(key string) any {
	return o.draw.attrs.Get(key)
}

// DrawAttrs returns every draw attribute, effects included.
func (o *Object) DrawAttrs() attrs.Map {
	return attrs.MergeMaps(o.draw.attrs.Map(), effect.ToAttrs(o.draw.effects.All()))
}

// Draw renders o and its subtree through the backend. Effects the backend
// does not support are logged and skipped. Any other error stops the pass.
// Drawing a container draws each of its roots.
func (o *Object) Draw() error {
	if o.container {
		for _, c := range o.Children() {
			if err := c.Draw(); err != nil {
				return err
			}
		}
		return nil
	}

	root := o.IsRoot()
	if root {
		if err := o.handle.PreDrawRoot(); err != nil {
			return o.drawError("pre-draw root", err)
		}
	}
	if err := o.handle.PreDrawObject(); err != nil {
		return o.drawError("pre-draw", err)
	}
	for _, e := range o.draw.effects.All() {
		if err := o.handle.ApplyEffect(e); err != nil {
			if errors.Is(err, errors.ErrCodeUnsupported) {
				o.arena.logger.Warn("skipping unsupported effect",
					"key", o.key, "effect", e.String(), "backend", o.arena.backend.Name())
				continue
			}
			return o.drawError("effect "+e.String(), err)
		}
	}
	if err := o.handle.PostDrawObject(); err != nil {
		return o.drawError("post-draw", err)
	}
	for _, c := range o.Children() {
		if err := c.Draw(); err != nil {
			return err
		}
	}
	if root {
		if err := o.handle.PostDrawRoot(); err != nil {
			return o.drawError("post-draw root", err)
		}
	}
	return nil
}

func (o *Object) drawError(stage string, err error) error {
	return errors.Wrap(errors.ErrCodeBackend, err, "%s %q", stage, o.key)
}
