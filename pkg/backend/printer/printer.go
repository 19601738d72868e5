// Package printer implements a backend that prints the figure object tree.
//
// Nothing is rendered. Each root announces itself, each object prints its
// geometry indented by depth, and each effect prints its arguments; text
// effects are shown in their foreground and background colors. The output
// is meant for inspecting layouts in a terminal.
package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/object"
)

// Name is the registered backend name.
const Name = "print"

func init() {
	backend.Register(Name, func(draw attrs.Map, opts backend.Options) (object.Backend, error) {
		return New(draw, opts), nil
	})
}

var (
	figureRule = strings.Repeat("^", 40)
	figureEnd  = strings.Repeat("+", 40)
)

// Backend prints objects to a writer.
type Backend struct {
	out      io.Writer
	logger   *log.Logger
	registry *effect.Registry[*handle]
	effects  bool
}

// New returns a printer writing to opts.Out. Effects are listed unless the
// figure's draw attributes set "print_effects" to false.
func New(draw attrs.Map, opts backend.Options) *Backend {
	opts.ValidateAndSetDefaults()
	b := &Backend{
		out:      opts.Out,
		logger:   opts.Logger,
		registry: effect.NewRegistry[*handle](),
		effects:  true,
	}
	if v, ok := attrs.ToBool(draw["print_effects"]); ok {
		b.effects = v
	}
	pattern := backend.PatternDefaults(draw)
	for _, k := range []effect.Kind{effect.KindFill, effect.KindBorder} {
		b.registry.Register(k, "color", printArgs(k, "color"))
		b.registry.RegisterWithDefaults(k, "pattern", pattern, printArgs(k, "pattern"))
	}
	b.registry.Register(effect.KindFill, "picture", printArgs(effect.KindFill, "picture"))
	b.registry.Register(effect.KindFill, "gradient", printArgs(effect.KindFill, "gradient"))
	b.registry.Register(effect.KindText, "", (*handle).printText)
	for _, k := range []effect.Kind{effect.KindRotate, effect.KindShear, effect.KindMask} {
		b.registry.Register(k, "", printArgs(k, ""))
	}
	return b
}

// Name returns "print".
func (b *Backend) Name() string { return Name }

// NewHandle returns the printing handle of o.
func (b *Backend) NewHandle(o *object.Object) object.Handle {
	return &handle{b: b, o: o}
}

// Defaults returns the registry defaults of the pair.
func (b *Backend) Defaults(kind effect.Kind, variant string) attrs.Map {
	return b.registry.Defaults(kind, variant)
}

// CreateShared returns the root key; printing needs no resource.
func (b *Backend) CreateShared(root *object.Object) (any, error) {
	return root.Key(), nil
}

// ReleaseShared does nothing.
func (b *Backend) ReleaseShared(*object.Object, any) {}

// PreDrawFigure prints the figure's opening rule.
func (b *Backend) PreDrawFigure(*object.Object) error {
	_, err := fmt.Fprintf(b.out, "\n%s\n", figureRule)
	return err
}

// PostDrawFigure prints the figure's closing rule.
func (b *Backend) PostDrawFigure(*object.Object) error {
	_, err := fmt.Fprintln(b.out, figureEnd)
	return err
}

type handle struct {
	b *Backend
	o *object.Object
}

func (h *handle) indent() string {
	return strings.Repeat("  ", h.o.Depth())
}

func (h *handle) PreDrawRoot() error {
	_, err := fmt.Fprintf(h.b.out, "['%s' root figure object's draw]\n", h.o.Key())
	return err
}

func (h *handle) PreDrawObject() error {
	_, err := fmt.Fprintf(h.b.out, "%s<%s>\n", h.indent(), h.o)
	return err
}

func (h *handle) ApplyEffect(e effect.Effect) error {
	if !h.b.effects && h.b.registry.Supports(e.Kind, e.Variant) {
		return nil
	}
	return h.b.registry.Apply(h, e)
}

func (h *handle) PostDrawObject() error { return nil }

func (h *handle) PostDrawRoot() error { return nil }

func printArgs(kind effect.Kind, variant string) effect.Handler[*handle] {
	name := effect.Effect{Kind: kind, Variant: variant}.String()
	return func(h *handle, args attrs.Map) error {
		_, err := fmt.Fprintf(h.b.out, "%s  %s %s\n", h.indent(), name, FormatArgs(args))
		return err
	}
}

func (h *handle) printText(args attrs.Map) error {
	text, _ := attrs.ToString(args["text"])
	fg, _ := attrs.ToString(args["fg_color"])
	bg, _ := attrs.ToString(args["bg_color"])
	_, err := fmt.Fprintf(h.b.out, "%s  text %q %s\n", h.indent(), text, textStyle(fg, bg).Render(text))
	return err
}

func textStyle(fg, bg string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c, err := backend.ParseColor(fg); err == nil && c.A > 0 {
		s = s.Foreground(lipgloss.Color(backend.Hex(c)))
	}
	if c, err := backend.ParseColor(bg); err == nil && c.A > 0 {
		s = s.Background(lipgloss.Color(backend.Hex(c)))
	}
	return s
}

// FormatArgs renders effect arguments as "{k=v, ...}" with sorted keys.
func FormatArgs(args attrs.Map) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, args[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

var (
	_ object.Backend = (*Backend)(nil)
	_ object.Handle  = (*handle)(nil)
)
