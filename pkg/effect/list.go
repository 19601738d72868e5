package effect

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// DefaultsFunc returns backend default arguments for a (kind, variant) pair.
type DefaultsFunc func(kind Kind, variant string) attrs.Map

// List holds at most one effect per kind, ordered by rank.
type List struct {
	items []Effect
}

// Add attaches e, replacing any effect of the same kind. Backend defaults for
// the pair are merged under e's arguments.
func (l *List) Add(e Effect, defaults DefaultsFunc) error {
	rank, ok := Rank(e.Kind)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown effect kind %q", e.Kind)
	}
	var base attrs.Map
	if defaults != nil {
		base = defaults(e.Kind, e.Variant)
	}
	e = Effect{Kind: e.Kind, Variant: e.Variant, Args: attrs.MergeMaps(base, e.Args)}

	l.Remove(e.Kind)
	pos := len(l.items)
	for i, cur := range l.items {
		if r, _ := Rank(cur.Kind); r > rank {
			pos = i
			break
		}
	}
	l.items = append(l.items, Effect{})
	copy(l.items[pos+1:], l.items[pos:])
	l.items[pos] = e
	return nil
}

// Get returns the effect of kind.
func (l *List) Get(kind Kind) (Effect, bool) {
	for _, e := range l.items {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

// SetArgs deep-merges args onto the effect of kind. It reports whether the
// effect exists.
func (l *List) SetArgs(kind Kind, args attrs.Map) bool {
	for i, e := range l.items {
		if e.Kind == kind {
			l.items[i].Args = attrs.MergeMaps(e.Args, args)
			return true
		}
	}
	return false
}

// Remove detaches the effect of kind, if any.
func (l *List) Remove(kind Kind) bool {
	for i, e := range l.items {
		if e.Kind == kind {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// All returns the effects in application order.
func (l *List) All() []Effect {
	out := make([]Effect, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of attached effects.
func (l *List) Len() int {
	return len(l.items)
}

// Clone returns a deep copy of l.
func (l *List) Clone() List {
	out := List{items: make([]Effect, len(l.items))}
	for i, e := range l.items {
		out.items[i] = e.Clone()
	}
	return out
}
