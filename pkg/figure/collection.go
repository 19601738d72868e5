package figure

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/loader"
	"github.com/matzehuels/cardstack/pkg/object"
)

// NameAttr is the layout attribute naming a figure.
const NameAttr = "name"

// BackendFactory creates the backend of one figure from its draw
// attributes.
type BackendFactory func(draw attrs.Map) (object.Backend, error)

// Loader produces figure records from a source.
type Loader interface {
	Load(src string) ([]loader.Record, bool, error)
}

// CollectionOptions configures a Collection. The numeric fields are shared
// by every figure that does not set its own; 0 means unset.
type CollectionOptions struct {
	PPI    float64
	Width  float64
	Height float64

	// Draw and Layout are the attributes shared by all figures. Per-figure
	// attributes are merged over them.
	Draw   attrs.Map
	Layout attrs.Map

	// NewBackend creates each figure's backend. Nil draws nothing.
	NewBackend BackendFactory

	// Logger receives collection events. Defaults to a discarding logger.
	Logger *log.Logger
}

// Spec describes one figure of a collection. Zero numeric fields and nil
// maps fall back to the collection's shared values.
type Spec struct {
	PPI    float64
	Width  float64
	Height float64
	Name   string
	Draw   attrs.Map
	Layout attrs.Map
}

// Collection builds and processes a sequence of figures.
type Collection struct {
	opts    CollectionOptions
	figures []*Figure
	pos     int // index of the last processed figure

	draws   []attrs.Map
	layouts []attrs.Map
}

// NewCollection returns an empty collection.
func NewCollection(opts CollectionOptions) *Collection {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Collection{opts: opts, pos: -1}
}

// Figures returns the figures added so far.
func (c *Collection) Figures() []*Figure { return c.figures }

// Len returns the number of figures.
func (c *Collection) Len() int { return len(c.figures) }

// Pos returns the index of the last processed figure, -1 before the first.
func (c *Collection) Pos() int { return c.pos }

// Pending returns how many attribute records have no figure yet.
func (c *Collection) Pending() int { return c.attrsLen() - len(c.figures) }

func (c *Collection) attrsLen() int { return min(len(c.draws), len(c.layouts)) }

// AddFigureAttrs queues the attributes of one figure. AddAllFigures turns
// queued attributes into figures.
func (c *Collection) AddFigureAttrs(draw, layout attrs.Map) {
	c.draws = append(c.draws, draw.Clone())
	c.layouts = append(c.layouts, layout.Clone())
	c.opts.Logger.Debug("queued figure attributes", "figure", c.attrsLen())
}

// LoadFigureAttrs queues every record l loads from src. It reports whether
// l loaded anything.
func (c *Collection) LoadFigureAttrs(l Loader, src string) (bool, error) {
	recs, loaded, err := l.Load(src)
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		c.AddFigureAttrs(r.Draw, r.Layout)
	}
	return loaded, nil
}

// AddFigure creates the next figure. Its attributes merge the shared ones,
// the queued ones for its index and those in spec, in that order. Size and
// resolution must be set either in spec or on the collection.
func (c *Collection) AddFigure(spec Spec) (*Figure, error) {
	ppi, err := shared("resolution_ppi", spec.PPI, c.opts.PPI)
	if err != nil {
		return nil, err
	}
	width, err := shared("width_mm", spec.Width, c.opts.Width)
	if err != nil {
		return nil, err
	}
	height, err := shared("height_mm", spec.Height, c.opts.Height)
	if err != nil {
		return nil, err
	}

	idx := len(c.figures)
	var draw, lay attrs.Map
	if idx < c.attrsLen() {
		draw, lay = c.draws[idx], c.layouts[idx]
	}
	draw = attrs.MergeMaps(c.opts.Draw, draw, spec.Draw)
	lay = attrs.MergeMaps(c.opts.Layout, lay, spec.Layout)

	name := spec.Name
	if name == "" {
		name, _ = attrs.ToString(lay[NameAttr])
	}

	var backend object.Backend
	if c.opts.NewBackend != nil {
		if backend, err = c.opts.NewBackend(draw); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "backend for figure %d", idx+1)
		}
	}

	c.opts.Logger.Debug("adding figure", "figure", idx+1, "name", name)
	f, err := New(Options{
		Width:   width,
		Height:  height,
		PPI:     ppi,
		Name:    name,
		Index:   &idx,
		Backend: backend,
		Layouts: lay,
		Logger:  c.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	c.figures = append(c.figures, f)
	if c.attrsLen() < len(c.figures) {
		c.AddFigureAttrs(nil, nil)
	}
	return f, nil
}

// AddAllFigures creates a figure for every queued attribute record.
func (c *Collection) AddAllFigures() error {
	for c.Pending() > 0 {
		if _, err := c.AddFigure(Spec{}); err != nil {
			return err
		}
	}
	return nil
}

// DoFigures steps every figure after the last processed one, see
// Figure.Step. It reports whether any layout ran.
func (c *Collection) DoFigures(rankBudget, layoutBudget int, force bool) (bool, error) {
	ran := false
	for i := c.pos + 1; i < len(c.figures); i++ {
		f := c.figures[i]
		c.opts.Logger.Info("processing figure", "figure", i+1, "name", f.Name())
		r, err := f.Step(rankBudget, layoutBudget, force)
		ran = ran || r
		if err != nil {
			c.pos = i
			return ran, err
		}
	}
	c.pos = len(c.figures) - 1
	return ran, nil
}

// LoadAndDoFigures loads src, adds a figure per new record and processes
// every unprocessed figure.
func (c *Collection) LoadAndDoFigures(l Loader, src string, rankBudget, layoutBudget int, force bool) (bool, error) {
	if _, err := c.LoadFigureAttrs(l, src); err != nil {
		return false, err
	}
	if err := c.AddAllFigures(); err != nil {
		return false, err
	}
	return c.DoFigures(rankBudget, layoutBudget, force)
}

// Close releases every figure.
func (c *Collection) Close() error {
	for _, f := range c.figures {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func shared(name string, own, common float64) (float64, error) {
	if own > 0 {
		return own, nil
	}
	if common > 0 {
		return common, nil
	}
	return 0, errors.MissingAttribute(name)
}
