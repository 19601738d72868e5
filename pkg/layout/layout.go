package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/object"
)

// Layout is one recipe scheduled on a figure.
type Layout interface {
	// Key identifies the layout within its figure.
	Key() string

	// Ranks returns the sorted ranks the layout acts on.
	Ranks() []int

	// Enabled reports whether the scheduler should run the layout.
	Enabled() bool

	// Priority orders layouts within a rank. Lower runs first.
	Priority() int

	// Run performs the actions for rank and returns the smallest rank
	// greater than rank the layout still has pending. ok is false when
	// nothing is pending.
	Run(rank int) (next int, ok bool, err error)
}

// Host is the figure a layout populates.
type Host interface {
	// Arena holds every object of the figure.
	Arena() *object.Arena

	// Container is the figure-sized object whose children are the roots.
	Container() *object.Object
}

// Base carries the attributes of a layout instance and the builder helpers.
// Concrete layouts embed it and override Run.
type Base struct {
	typ   *Type
	host  Host
	attrs *attrs.Bag
	scope *attrs.Scope
}

// New instantiates the registered type name on host with attribute
// overrides on top of the type's defaults.
func New(name string, host Host, overrides attrs.Map) (Layout, error) {
	t, ok := Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown layout type %q", name)
	}
	b := &Base{typ: t, host: host, attrs: attrs.NewBag(t.Defaults, overrides)}
	b.scope = attrs.NewScope(b.attrs)
	if t.New == nil {
		return b, nil
	}
	return t.New(b), nil
}

// Key returns the type name.
func (b *Base) Key() string { return b.typ.Name }

// Type returns the registered type.
func (b *Base) Type() *Type { return b.typ }

// Ranks returns the type's rank set.
func (b *Base) Ranks() []int { return b.typ.Ranks }

// Enabled reports the "enabled" attribute.
func (b *Base) Enabled() bool { return b.attrs.Bool("enabled") }

// Priority reports the "priority" attribute.
func (b *Base) Priority() int { return b.attrs.Int("priority") }

// Attrs returns the layout's attribute bag.
func (b *Base) Attrs() *attrs.Bag { return b.attrs }

// Scope returns the default resolution scope over the attributes.
func (b *Base) Scope() *attrs.Scope { return b.scope }

// Host returns the figure being populated.
func (b *Base) Host() Host { return b.host }

// Logger returns the figure's logger.
func (b *Base) Logger() *log.Logger { return b.host.Arena().Logger() }

// Root returns the root object keyed key, or nil.
func (b *Base) Root(key string) *object.Object {
	return b.host.Container().Child(key)
}

// NextRank returns the first rank of the type greater than rank.
func (b *Base) NextRank(rank int) (int, bool) {
	for _, r := range b.typ.Ranks {
		if r > rank {
			return r, true
		}
	}
	return 0, false
}

// Run does nothing and reports the next rank. Layouts override it.
func (b *Base) Run(rank int) (int, bool, error) {
	next, ok := b.NextRank(rank)
	return next, ok, nil
}
