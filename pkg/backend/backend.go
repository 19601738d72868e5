package backend

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/object"
	"github.com/matzehuels/cardstack/pkg/units"
)

// Figure draw attribute keys read by every backend.
const (
	AttrBackground    = "background"
	AttrPatternFg     = "pattern_fg"
	AttrPatternBg     = "pattern_bg"
	AttrPatternSizeMM = "pattern_size_mm"
)

// DefaultDrawAttrs are the figure draw attributes backends start from.
func DefaultDrawAttrs() attrs.Map {
	return attrs.Map{
		AttrBackground:    "transparent",
		AttrPatternFg:     "black",
		AttrPatternBg:     "white",
		AttrPatternSizeMM: 2.0,
	}
}

// Artifact is one rendered output file.
type Artifact struct {
	Name   string // file name, including extension
	Format string // "png", "svg", "pdf", "txt"
	Data   []byte
}

// Producer is implemented by backends that render to files.
type Producer interface {
	// Artifacts returns the artifacts produced since the last call and
	// clears the list.
	Artifacts() []Artifact
}

// Options configures a backend.
type Options struct {
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger

	// Out receives printed output. Nil selects os.Stdout.
	Out io.Writer

	// Formats lists the output formats of file backends. Empty selects the
	// backend's native format.
	Formats []string
}

// ValidateAndSetDefaults fills unset options.
func (o *Options) ValidateAndSetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
}

// Factory builds a backend for one figure from its draw attributes.
type Factory func(draw attrs.Map, opts Options) (object.Backend, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available by name. It panics on duplicates, as
// registration happens in init.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[name]; dup {
		panic("backend: duplicate registration of " + name)
	}
	factories[name] = f
}

// New builds the backend registered under name.
func New(name string, draw attrs.Map, opts Options) (object.Backend, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown backend %q (available: %v)", name, Names())
	}
	opts.ValidateAndSetDefaults()
	return f(attrs.MergeMaps(DefaultDrawAttrs(), draw), opts)
}

// Names lists the registered backends, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PatternDefaults returns registry defaults for the pattern variants taken
// from a figure's draw attributes.
func PatternDefaults(draw attrs.Map) attrs.Map {
	bag := attrs.NewBag(DefaultDrawAttrs(), draw)
	return attrs.Map{
		"fg_color": bag.String(AttrPatternFg),
		"bg_color": bag.String(AttrPatternBg),
		"size_mm":  bag.Float(AttrPatternSizeMM),
	}
}

// ArtifactName returns the file name of root's artifact in format.
func ArtifactName(root *object.Object, format string) string {
	return root.Arena().Name() + root.Key() + "." + format
}

// TextSizePt returns the font size of a text effect. A nil or non-positive
// size_pt selects the height of o's canvas.
func TextSizePt(o *object.Object, e effect.Effect) float64 {
	if v, ok := attrs.ToFloat(e.Args["size_pt"]); ok && v > 0 {
		return v
	}
	return units.MMToPt(o.CanvasSize().Y())
}
