package figure

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/object"
)

// ContainerKey is the key of the container holding a figure's root objects.
const ContainerKey = "figure"

// Drawer is implemented by backends that act before and after a whole
// figure is drawn, such as opening and finishing a document.
type Drawer interface {
	PreDrawFigure(container *object.Object) error
	PostDrawFigure(container *object.Object) error
}

// Options configures a figure.
type Options struct {
	// Width and Height are the figure size in millimeters. Both are required.
	Width  float64
	Height float64

	// PPI is the resolution. Defaults to object.DefaultPPI.
	PPI float64

	// Name and Index name the figure's artifacts, see IdxNamePrefix. A nil
	// Index leaves the sequence number out.
	Name  string
	Index *int

	// Backend renders the figure. Nil selects object.NopBackend.
	Backend object.Backend

	// Layouts holds "layout_<type>" attributes. Keys without the prefix are
	// ignored.
	Layouts attrs.Map

	// Logger receives layout and draw events. Defaults to a discarding logger.
	Logger *log.Logger
}

// Figure is a set of root objects with a backend and a layout scheduler.
type Figure struct {
	id     uuid.UUID
	name   string
	index  *int
	logger *log.Logger

	arena     *object.Arena
	container *object.Object
	scheduler *layout.Scheduler

	dirty bool
}

// New creates a figure and adds the layouts named in opts.Layouts.
func New(opts Options) (*Figure, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure size %vx%v mm must be positive", opts.Width, opts.Height)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	f := &Figure{
		id:    uuid.New(),
		name:  opts.Name,
		index: opts.Index,
	}
	f.logger = opts.Logger.With("figure", f.Label())
	f.arena = object.NewArena(object.ArenaOptions{
		Backend: opts.Backend,
		PPI:     opts.PPI,
		Name:    f.IdxNamePrefix(),
		Logger:  f.logger,
	})
	c, err := f.arena.NewContainer(ContainerKey, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	f.container = c
	f.scheduler = layout.NewScheduler(f, layout.SchedulerOptions{Logger: f.logger})
	if err := f.scheduler.AddFromAttrs(opts.Layouts); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "figure %s", f.Label())
	}
	return f, nil
}

// ID returns the figure's unique id.
func (f *Figure) ID() uuid.UUID { return f.id }

// Name returns the figure name.
func (f *Figure) Name() string { return f.name }

// Index returns the sequence index and whether one is set.
func (f *Figure) Index() (int, bool) {
	if f.index == nil {
		return 0, false
	}
	return *f.index, true
}

// Label identifies the figure in logs: its name, else its 1-based index,
// else a short id.
func (f *Figure) Label() string {
	switch {
	case f.name != "":
		return f.name
	case f.index != nil:
		return fmt.Sprintf("#%d", *f.index+1)
	default:
		return f.id.String()[:8]
	}
}

// IdxNamePrefix prefixes the figure's artifact names: the zero-padded
// 1-based index followed by "-", then the name followed by "_". Either part
// is left out when unset.
func (f *Figure) IdxNamePrefix() string {
	var b strings.Builder
	if f.index != nil {
		fmt.Fprintf(&b, "%03d-", *f.index+1)
	}
	if f.name != "" {
		b.WriteString(f.name + "_")
	}
	return b.String()
}

// Arena returns the arena owning the figure's objects.
func (f *Figure) Arena() *object.Arena { return f.arena }

// Container returns the object holding the root objects.
func (f *Figure) Container() *object.Object { return f.container }

// Scheduler returns the figure's layout scheduler.
func (f *Figure) Scheduler() *layout.Scheduler { return f.scheduler }

// Logger returns the figure's logger.
func (f *Figure) Logger() *log.Logger { return f.logger }

// Width returns the figure width in millimeters.
func (f *Figure) Width() float64 { return f.container.Width() }

// Height returns the figure height in millimeters.
func (f *Figure) Height() float64 { return f.container.Height() }

// PPI returns the figure resolution.
func (f *Figure) PPI() float64 { return f.arena.PPI() }

// Dirty reports whether layouts ran since the last draw.
func (f *Figure) Dirty() bool { return f.dirty }

// RootObject returns the idx-th root object whose key base is base.
func (f *Figure) RootObject(base string, idx int) *object.Object {
	return f.container.ChildByBase(base, idx)
}

// RootObjects returns the root objects in insertion order.
func (f *Figure) RootObjects() []*object.Object { return f.container.Children() }

// FindFirst returns the first object in the figure, pre-order, whose key
// base is base and whose suffix index is idx.
func (f *Figure) FindFirst(base string, idx int) *object.Object {
	return f.container.Find(base, idx)
}

// RunLayout runs pending layouts within the budgets, see
// layout.Scheduler.Run, and marks the figure dirty if any ran.
func (f *Figure) RunLayout(rankBudget, layoutBudget int) (bool, error) {
	ran, err := f.scheduler.Run(rankBudget, layoutBudget)
	if ran {
		f.dirty = true
	}
	return ran, err
}

// RunDraw draws every root object in insertion order, between the
// backend's figure hooks if it implements Drawer. Nothing happens unless
// the figure is dirty or force is set.
func (f *Figure) RunDraw(force bool) error {
	if !f.dirty && !force {
		return nil
	}
	backend := f.arena.Backend()
	d, hooks := backend.(Drawer)
	if hooks {
		if err := d.PreDrawFigure(f.container); err != nil {
			return errors.Wrap(errors.ErrCodeBackend, err, "pre-draw figure %s", f.Label())
		}
	}
	if err := f.container.Draw(); err != nil {
		return err
	}
	if hooks {
		if err := d.PostDrawFigure(f.container); err != nil {
			return errors.Wrap(errors.ErrCodeBackend, err, "post-draw figure %s", f.Label())
		}
	}
	f.logger.Debug("drew figure", "backend", backend.Name(), "roots", f.container.ChildCount())
	f.dirty = false
	return nil
}

// Step runs layouts, then draws if anything ran or force is set. It
// reports whether any layout ran.
func (f *Figure) Step(rankBudget, layoutBudget int, force bool) (bool, error) {
	ran, err := f.RunLayout(rankBudget, layoutBudget)
	if err != nil {
		return ran, err
	}
	return ran, f.RunDraw(force)
}

// Close releases every object and the backend resources they hold.
func (f *Figure) Close() error {
	for _, r := range f.container.Children() {
		if err := f.arena.Release(r); err != nil {
			return err
		}
	}
	return f.arena.Release(f.container)
}

// String dumps the object tree, one object per line.
func (f *Figure) String() string {
	var b strings.Builder
	for _, r := range f.container.Children() {
		_ = r.Dump(&b)
	}
	return b.String()
}

var _ layout.Host = (*Figure)(nil)
