// Package svg implements a backend that writes figures as SVG documents.
//
// Every root object becomes one document sized in millimeters, with a pixel
// view box at the figure's resolution. Each object is emitted as a group at
// its position in the root, in draw order, so children paint over their
// parent. Rotation, shear and opacity become attributes of the group.
//
// Besides "svg" the backend can produce "png" and "pdf" artifacts by piping
// each document through rsvg-convert.
package svg

import (
	"bytes"
	"fmt"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/fonts"
	"github.com/matzehuels/cardstack/pkg/object"
	"github.com/matzehuels/cardstack/pkg/units"
)

// Name is the registered backend name.
const Name = "svg"

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

func init() {
	backend.Register(Name, func(draw attrs.Map, opts backend.Options) (object.Backend, error) {
		return New(draw, opts)
	})
}

// Backend writes SVG documents.
type Backend struct {
	logger     *log.Logger
	registry   *effect.Registry[*handle]
	formats    []string
	background string
	embedFont  bool
	convert    converter
	artifacts  []backend.Artifact
}

// New returns an SVG backend. Formats default to "svg". The figure draw
// attribute "embed_font" (default true) embeds the text font in every
// document.
func New(draw attrs.Map, opts backend.Options) (*Backend, error) {
	opts.ValidateAndSetDefaults()
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{FormatSVG}
	}
	for _, f := range formats {
		switch f {
		case FormatSVG, FormatPNG, FormatPDF:
		default:
			return nil, errors.New(errors.ErrCodeInvalidConfig, "svg backend cannot produce %q", f)
		}
	}
	bag := attrs.NewBag(attrs.MergeMaps(backend.DefaultDrawAttrs(), attrs.Map{"embed_font": true}), draw)
	bg, err := backend.ParseColor(bag.String(backend.AttrBackground))
	if err != nil {
		return nil, err
	}
	b := &Backend{
		logger:     opts.Logger,
		registry:   effect.NewRegistry[*handle](),
		formats:    formats,
		background: backend.Hex(bg),
		embedFont:  bag.Bool("embed_font"),
		convert:    rsvgConvert,
	}
	pattern := backend.PatternDefaults(draw)
	b.registry.Register(effect.KindFill, "color", (*handle).fillColor)
	b.registry.RegisterWithDefaults(effect.KindFill, "pattern", pattern, (*handle).fillPattern)
	b.registry.Register(effect.KindFill, "picture", (*handle).fillPicture)
	b.registry.Register(effect.KindFill, "gradient", (*handle).fillGradient)
	b.registry.Register(effect.KindBorder, "color", (*handle).borderColor)
	b.registry.RegisterWithDefaults(effect.KindBorder, "pattern", pattern, (*handle).borderPattern)
	b.registry.RegisterWithDefaults(effect.KindText, "", attrs.Map{"bold": true}, (*handle).text)
	b.registry.Register(effect.KindRotate, "", (*handle).rotate)
	b.registry.Register(effect.KindShear, "", (*handle).shear)
	return b, nil
}

// Name returns "svg".
func (b *Backend) Name() string { return Name }

// NewHandle returns the drawing handle of o.
func (b *Backend) NewHandle(o *object.Object) object.Handle {
	return &handle{b: b, o: o}
}

// Defaults returns the registry defaults of the pair.
func (b *Backend) Defaults(kind effect.Kind, variant string) attrs.Map {
	return b.registry.Defaults(kind, variant)
}

// document is the shared resource of a root.
type document struct {
	buf    bytes.Buffer
	canvas *svgo.SVG
	ids    int
}

func (d *document) nextID(prefix string) string {
	d.ids++
	return fmt.Sprintf("%s%d", prefix, d.ids)
}

// CreateShared allocates the document of root.
func (b *Backend) CreateShared(*object.Object) (any, error) {
	d := &document{}
	d.canvas = svgo.New(&d.buf)
	return d, nil
}

// ReleaseShared drops the document.
func (b *Backend) ReleaseShared(*object.Object, any) {}

// Artifacts returns the documents of the roots drawn since the last call.
func (b *Backend) Artifacts() []backend.Artifact {
	out := b.artifacts
	b.artifacts = nil
	return out
}

// Supported lists the effects the backend draws.
func (b *Backend) Supported() []string { return b.registry.Supported() }

type handle struct {
	b    *Backend
	o    *object.Object
	doc  *document
	body bytes.Buffer
	out  *svgo.SVG

	angle  float64
	shearX float64
	shearY float64
}

func (h *handle) document() (*document, error) {
	v, err := h.o.Shared()
	if err != nil {
		return nil, err
	}
	d, ok := v.(*document)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "shared resource of %q is %T, not an SVG document", h.o.Key(), v)
	}
	return d, nil
}

func (h *handle) size() (int, int) {
	s := h.o.SizePx()
	return max(1, s[0]), max(1, s[1])
}

func (h *handle) PreDrawRoot() error {
	d, err := h.document()
	if err != nil {
		return err
	}
	d.buf.Reset()
	d.ids = 0
	w, ht := h.size()
	size := h.o.Size()
	d.canvas.Startraw(
		fmt.Sprintf(`width="%gmm"`, size.X()),
		fmt.Sprintf(`height="%gmm"`, size.Y()),
		fmt.Sprintf(`viewBox="0 0 %d %d"`, w, ht),
	)
	d.canvas.Title(h.o.Arena().Name() + h.o.Key())
	if h.b.embedFont {
		d.canvas.Style("text/css", fmt.Sprintf(
			"@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.RegularTTFBase64()))
	}
	if h.b.background != "none" {
		d.canvas.Rect(0, 0, w, ht, "fill:"+h.b.background)
	}
	return nil
}

func (h *handle) PreDrawObject() error {
	d, err := h.document()
	if err != nil {
		return err
	}
	h.doc = d
	h.body.Reset()
	h.out = svgo.New(&h.body)
	h.angle, h.shearX, h.shearY = 0, 0, 0
	return nil
}

func (h *handle) ApplyEffect(e effect.Effect) error {
	return h.b.registry.Apply(h, e)
}

// transform returns the group transform of the object: its position, then
// shear and rotation about its center.
func (h *handle) transform() string {
	pos := h.o.RootBeginPx()
	w, ht := h.size()
	cx, cy := float64(w)/2, float64(ht)/2
	parts := []string{fmt.Sprintf("translate(%d,%d)", pos[0], pos[1])}
	if h.shearX != 0 || h.shearY != 0 {
		kx := -float64(units.MMToPx(h.shearX, h.o.PPI())) / float64(ht)
		ky := -float64(units.MMToPx(h.shearY, h.o.PPI())) / float64(w)
		parts = append(parts, fmt.Sprintf("translate(%g,%g) matrix(1,%g,%g,1,0,0) translate(%g,%g)", cx, cy, ky, kx, -cx, -cy))
	}
	if h.angle != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%g,%g,%g)", h.angle, cx, cy))
	}
	return strings.Join(parts, " ")
}

func (h *handle) PostDrawObject() error {
	group := []string{
		fmt.Sprintf(`data-key="%s"`, h.o.Key()),
		fmt.Sprintf(`transform="%s"`, h.transform()),
	}
	if op := h.o.Opacity(); op < 1 {
		group = append(group, fmt.Sprintf(`opacity="%g"`, op))
	}
	h.doc.canvas.Group(group...)
	h.doc.buf.Write(h.body.Bytes())
	h.doc.canvas.Gend()
	h.body.Reset()
	h.out = nil
	return nil
}

func (h *handle) PostDrawRoot() error {
	d, err := h.document()
	if err != nil {
		return err
	}
	d.canvas.End()
	doc := append([]byte(nil), d.buf.Bytes()...)
	for _, f := range h.b.formats {
		data := doc
		if f != FormatSVG {
			if data, err = h.b.convert(doc, f, h.o.PPI()); err != nil {
				return err
			}
		}
		name := backend.ArtifactName(h.o, f)
		h.b.artifacts = append(h.b.artifacts, backend.Artifact{Name: name, Format: f, Data: data})
		h.b.logger.Debug("rendered root", "artifact", name, "bytes", len(data))
	}
	return nil
}

var (
	_ object.Backend   = (*Backend)(nil)
	_ object.Handle    = (*handle)(nil)
	_ backend.Producer = (*Backend)(nil)
)
