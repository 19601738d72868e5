// Package raster implements a backend that draws figures into images.
//
// Every root object owns one canvas the size of the root. Each object draws
// its effects into a layer of its own size, which is composited onto the
// root canvas at the object's position once its effects are applied, so
// children always land on top of their parent. Finished roots are encoded
// as PNG artifacts.
//
// Rotation and shear are collected while effects are applied and take
// effect when the layer is composited, about the layer's center.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/object"
	"github.com/matzehuels/cardstack/pkg/units"
)

// Name is the registered backend name.
const Name = "raster"

// FormatPNG is the only output format.
const FormatPNG = "png"

func init() {
	backend.Register(Name, func(draw attrs.Map, opts backend.Options) (object.Backend, error) {
		return New(draw, opts)
	})
}

// Backend draws objects with gg.
type Backend struct {
	logger     *log.Logger
	registry   *effect.Registry[*handle]
	background color.NRGBA
	artifacts  []backend.Artifact
}

// New returns a raster backend. Formats other than "png" are rejected.
func New(draw attrs.Map, opts backend.Options) (*Backend, error) {
	opts.ValidateAndSetDefaults()
	for _, f := range opts.Formats {
		if f != FormatPNG {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "raster backend cannot produce %q", f)
		}
	}
	bag := attrs.NewBag(backend.DefaultDrawAttrs(), draw)
	bg, err := backend.ParseColor(bag.String(backend.AttrBackground))
	if err != nil {
		return nil, err
	}
	b := &Backend{
		logger:     opts.Logger,
		registry:   effect.NewRegistry[*handle](),
		background: bg,
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

// Name returns "raster".
func (b *Backend) Name() string { return Name }

// NewHandle returns the drawing handle of o.
func (b *Backend) NewHandle(o *object.Object) object.Handle {
	return &handle{b: b, o: o}
}

// Defaults returns the registry defaults of the pair.
func (b *Backend) Defaults(kind effect.Kind, variant string) attrs.Map {
	return b.registry.Defaults(kind, variant)
}

// CreateShared allocates the canvas of root.
func (b *Backend) CreateShared(root *object.Object) (any, error) {
	w, h := pxSize(root)
	return gg.NewContext(w, h), nil
}

// ReleaseShared drops the canvas.
func (b *Backend) ReleaseShared(*object.Object, any) {}

// Artifacts returns the PNG images of the roots drawn since the last call.
func (b *Backend) Artifacts() []backend.Artifact {
	out := b.artifacts
	b.artifacts = nil
	return out
}

// Supported lists the effects the backend draws.
func (b *Backend) Supported() []string { return b.registry.Supported() }

func pxSize(o *object.Object) (int, int) {
	s := o.SizePx()
	return max(1, s[0]), max(1, s[1])
}

type handle struct {
	b     *Backend
	o     *object.Object
	layer *gg.Context

	angle  float64
	shearX float64
	shearY float64
}

func (h *handle) canvas() (*gg.Context, error) {
	v, err := h.o.Shared()
	if err != nil {
		return nil, err
	}
	dc, ok := v.(*gg.Context)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "shared resource of %q is %T, not a canvas", h.o.Key(), v)
	}
	return dc, nil
}

func (h *handle) PreDrawRoot() error {
	dc, err := h.canvas()
	if err != nil {
		return err
	}
	dc.SetColor(h.b.background)
	dc.Clear()
	return nil
}

func (h *handle) PreDrawObject() error {
	w, ht := pxSize(h.o)
	h.layer = gg.NewContext(w, ht)
	h.angle, h.shearX, h.shearY = 0, 0, 0
	return nil
}

func (h *handle) ApplyEffect(e effect.Effect) error {
	return h.b.registry.Apply(h, e)
}

func (h *handle) PostDrawObject() error {
	dc, err := h.canvas()
	if err != nil {
		return err
	}
	var src image.Image = h.layer.Image()
	if op := h.o.Opacity(); op < 1 {
		src = fade(src, op)
	}
	w, ht := pxSize(h.o)
	cx, cy := float64(w)/2, float64(ht)/2
	pos := h.o.RootBeginPx()

	dc.Push()
	dc.Translate(float64(pos[0]), float64(pos[1]))
	if h.shearX != 0 || h.shearY != 0 {
		kx := -float64(units.MMToPx(h.shearX, h.o.PPI())) / float64(ht)
		ky := -float64(units.MMToPx(h.shearY, h.o.PPI())) / float64(w)
		dc.ShearAbout(kx, ky, cx, cy)
	}
	if h.angle != 0 {
		dc.RotateAbout(gg.Radians(h.angle), cx, cy)
	}
	dc.DrawImage(src, 0, 0)
	dc.Pop()
	h.layer = nil
	return nil
}

func (h *handle) PostDrawRoot() error {
	dc, err := h.canvas()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "encode %q", h.o.Key())
	}
	name := backend.ArtifactName(h.o, FormatPNG)
	h.b.artifacts = append(h.b.artifacts, backend.Artifact{Name: name, Format: FormatPNG, Data: buf.Bytes()})
	h.b.logger.Debug("rendered root", "artifact", name, "bytes", buf.Len())
	return nil
}

func fade(src image.Image, opacity float64) image.Image {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
	xdraw.DrawMask(dst, b, src, b.Min, mask, image.Point{}, xdraw.Over)
	return dst
}

var (
	_ object.Backend   = (*Backend)(nil)
	_ object.Handle    = (*handle)(nil)
	_ backend.Producer = (*Backend)(nil)
)
