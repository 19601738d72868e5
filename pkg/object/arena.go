package object

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/errors"
)

// ID addresses an object within its arena.
type ID int

// NoID is the parent of a detached object.
const NoID ID = -1

// DefaultPPI is the resolution used when neither the object nor the arena
// sets one.
const DefaultPPI = 300.0

// ArenaOptions configures an arena.
type ArenaOptions struct {
	// Backend renders objects. Nil selects NopBackend.
	Backend Backend

	// PPI is the default resolution of new objects.
	PPI float64

	// Name prefixes artifact names produced by the backend.
	Name string

	// Logger receives debug and warning output. Nil discards it.
	Logger *log.Logger
}

// Arena owns a set of objects. IDs are stable for the arena's lifetime and
// never reused.
type Arena struct {
	nodes   []*Object
	live    int
	backend Backend
	ppi     float64
	name    string
	logger  *log.Logger
}

// NewArena returns an empty arena.
func NewArena(opts ArenaOptions) *Arena {
	a := &Arena{
		backend: opts.Backend,
		ppi:     opts.PPI,
		name:    opts.Name,
		logger:  opts.Logger,
	}
	if a.backend == nil {
		a.backend = NopBackend{}
	}
	if a.ppi <= 0 {
		a.ppi = DefaultPPI
	}
	if a.logger == nil {
		a.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return a
}

// Backend returns the arena's backend.
func (a *Arena) Backend() Backend { return a.backend }

// Logger returns the arena's logger.
func (a *Arena) Logger() *log.Logger { return a.logger }

// PPI returns the default resolution.
func (a *Arena) PPI() float64 { return a.ppi }

// Name returns the artifact name prefix.
func (a *Arena) Name() string { return a.name }

// SetName sets the artifact name prefix.
func (a *Arena) SetName(name string) { a.name = name }

// Len returns the number of live objects.
func (a *Arena) Len() int { return a.live }

// Get returns the object with id, or nil if it was released or never existed.
func (a *Arena) Get(id ID) *Object {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// New creates a detached object.
func (a *Arena) New(p Params) (*Object, error) {
	o, err := a.alloc(p)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("created object", "key", o.key, "id", o.id)
	return o, nil
}

// NewContainer creates a detached object whose children are all roots. A
// figure uses one container to hold its root objects.
func (a *Arena) NewContainer(key string, width, height float64) (*Object, error) {
	o, err := a.alloc(Params{Key: key, Width: width, Height: height})
	if err != nil {
		return nil, err
	}
	o.container = true
	o.depth = -1
	return o, nil
}

func (a *Arena) alloc(p Params) (*Object, error) {
	if err := errors.ValidateKey(p.Key); err != nil {
		return nil, err
	}
	ax, ay := p.AlignX, p.AlignY
	if ax == "" {
		ax = DefaultAlign(AxisX)
	}
	if ay == "" {
		ay = DefaultAlign(AxisY)
	}
	if !ax.Valid(AxisX) {
		return nil, errors.New(errors.ErrCodeInvalidAlignment, "invalid x alignment %q", string(ax))
	}
	if !ay.Valid(AxisY) {
		return nil, errors.New(errors.ErrCodeInvalidAlignment, "invalid y alignment %q", string(ay))
	}

	o := &Object{
		arena:  a,
		id:     ID(len(a.nodes)),
		key:    p.Key,
		parent: NoID,
		index:  make(map[string]ID),
		ppi:    p.PPI,
		margin: p.Margin,
	}
	o.size[AxisX], o.size[AxisY] = p.Width, p.Height
	o.offset[AxisX], o.offset[AxisY] = p.OffsetX, p.OffsetY
	o.align = [2]Align{ax, ay}
	o.opacity = 1
	if p.Opacity != nil {
		o.opacity = clampOpacity(*p.Opacity)
	}
	if o.ppi <= 0 {
		o.ppi = a.ppi
	}
	o.draw = newDrawState()

	a.nodes = append(a.nodes, o)
	a.live++
	o.handle = a.backend.NewHandle(o)

	if p.Draw != nil {
		if err := o.SetDrawAttrs(p.Draw); err != nil {
			a.free(o)
			return nil, err
		}
	}
	return o, nil
}

// Release detaches o and frees it and its whole subtree. Shared backend
// resources owned by released roots are released.
func (a *Arena) Release(o *Object) error {
	if o.arena != a || a.Get(o.id) != o {
		return errors.New(errors.ErrCodeNotFound, "object %q is not live in this arena", o.key)
	}
	if o.parent != NoID {
		if err := o.Unset(); err != nil {
			return err
		}
	}
	o.releaseShared()
	var ids []ID
	o.Walk(func(n *Object) bool {
		ids = append(ids, n.id)
		return true
	})
	for _, id := range ids {
		a.free(a.nodes[id])
	}
	return nil
}

func (a *Arena) free(o *Object) {
	a.nodes[o.id] = nil
	a.live--
}
