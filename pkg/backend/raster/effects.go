package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/fonts"
	"github.com/matzehuels/cardstack/pkg/units"
)

// placeholder fills pictures whose file is missing.
var placeholder = color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}

func argColor(args attrs.Map, key string) (color.NRGBA, error) {
	s, _ := attrs.ToString(args[key])
	c, err := backend.ParseColor(s)
	if err != nil {
		return c, errors.Wrap(errors.GetCode(err), err, "argument %s", key)
	}
	return c, nil
}

func (h *handle) size() (float64, float64) {
	w, ht := pxSize(h.o)
	return float64(w), float64(ht)
}

// paint fills the layer with the current fill style. With frame set only
// the margin around the canvas is painted.
func (h *handle) paint(frame bool) {
	w, ht := h.size()
	if !frame {
		h.layer.DrawRectangle(0, 0, w, ht)
		h.layer.Fill()
		return
	}
	m := float64(h.o.MarginPx())
	if m <= 0 {
		return
	}
	h.layer.SetFillRuleEvenOdd()
	h.layer.DrawRectangle(0, 0, w, ht)
	h.layer.DrawRectangle(m, m, w-2*m, ht-2*m)
	h.layer.Fill()
	h.layer.SetFillRuleWinding()
}

func (h *handle) fillColor(args attrs.Map) error {
	return h.solid(args, false)
}

func (h *handle) borderColor(args attrs.Map) error {
	return h.solid(args, true)
}

func (h *handle) solid(args attrs.Map, frame bool) error {
	c, err := argColor(args, "color")
	if err != nil {
		return err
	}
	h.layer.SetColor(c)
	h.paint(frame)
	return nil
}

func (h *handle) fillPattern(args attrs.Map) error {
	return h.pattern(args, false)
}

func (h *handle) borderPattern(args attrs.Map) error {
	return h.pattern(args, true)
}

// pattern paints a two-color checkerboard.
func (h *handle) pattern(args attrs.Map, frame bool) error {
	fg, err := argColor(args, "fg_color")
	if err != nil {
		return err
	}
	bg, err := argColor(args, "bg_color")
	if err != nil {
		return err
	}
	sizeMM, _ := attrs.ToFloat(args["size_mm"])
	cell := max(1, units.MMToPx(sizeMM, h.o.PPI()))
	tile := image.NewNRGBA(image.Rect(0, 0, 2*cell, 2*cell))
	for y := 0; y < 2*cell; y++ {
		for x := 0; x < 2*cell; x++ {
			if (x/cell+y/cell)%2 == 0 {
				tile.SetNRGBA(x, y, fg)
			} else {
				tile.SetNRGBA(x, y, bg)
			}
		}
	}
	h.layer.SetFillStyle(gg.NewSurfacePattern(tile, gg.RepeatBoth))
	h.paint(frame)
	return nil
}

// fillGradient paints a linear gradient from start_color to end_color. The
// angle in degrees turns the gradient axis clockwise from left-to-right.
func (h *handle) fillGradient(args attrs.Map) error {
	start, err := argColor(args, "start_color")
	if err != nil {
		return err
	}
	end, err := argColor(args, "end_color")
	if err != nil {
		return err
	}
	angle, _ := attrs.ToFloat(args["angle"])
	w, ht := h.size()
	dx, dy := math.Cos(gg.Radians(angle)), math.Sin(gg.Radians(angle))
	reach := (math.Abs(dx)*w + math.Abs(dy)*ht) / 2
	cx, cy := w/2, ht/2
	g := gg.NewLinearGradient(cx-dx*reach, cy-dy*reach, cx+dx*reach, cy+dy*reach)
	g.AddColorStop(0, start)
	g.AddColorStop(1, end)
	h.layer.SetFillStyle(g)
	h.paint(false)
	return nil
}

// fillPicture scales the image at path onto the canvas area. An empty or
// unreadable path paints a placeholder.
func (h *handle) fillPicture(args attrs.Map) error {
	path, _ := attrs.ToString(args["path"])
	cb, cs := h.o.CanvasBeginPx(), h.o.CanvasSizePx()
	if cs[0] <= 0 || cs[1] <= 0 {
		return nil
	}
	var pic image.Image
	if path != "" {
		im, err := gg.LoadImage(path)
		if err != nil {
			h.b.logger.Warn("picture not loaded, using placeholder", "key", h.o.Key(), "path", path, "err", err)
		}
		pic = im
	}
	if pic == nil {
		h.layer.SetColor(placeholder)
		h.layer.DrawRectangle(float64(cb[0]), float64(cb[1]), float64(cs[0]), float64(cs[1]))
		h.layer.Fill()
		return nil
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, cs[0], cs[1]))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), pic, pic.Bounds(), xdraw.Over, nil)
	h.layer.DrawImage(scaled, cb[0], cb[1])
	return nil
}

// text draws text within the canvas area, vertically centered and wrapped
// at the canvas width. The background color is not painted.
func (h *handle) text(args attrs.Map) error {
	s, _ := attrs.ToString(args["text"])
	if s == "" {
		return nil
	}
	fg, err := argColor(args, "fg_color")
	if err != nil {
		return err
	}
	bold, _ := attrs.ToBool(args["bold"])
	size := backend.TextSizePt(h.o, effect.Effect{Kind: effect.KindText, Args: args})
	face, err := fonts.Face(bold, size, h.o.PPI())
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "font face")
	}
	defer face.Close()

	cb, cs := h.o.CanvasBeginPx(), h.o.CanvasSizePx()
	justify, _ := attrs.ToString(args["justify"])
	ax, align := justification(justify)
	h.layer.SetFontFace(face)
	h.layer.SetColor(fg)
	x := float64(cb[0]) + ax*float64(cs[0])
	y := float64(cb[1]) + float64(cs[1])/2
	h.layer.DrawStringWrapped(s, x, y, ax, 0.5, float64(cs[0]), 1.0, align)
	return nil
}

func justification(s string) (float64, gg.Align) {
	switch s {
	case "center":
		return 0.5, gg.AlignCenter
	case "right":
		return 1, gg.AlignRight
	}
	return 0, gg.AlignLeft
}

func (h *handle) rotate(args attrs.Map) error {
	h.angle, _ = attrs.ToFloat(args["angle"])
	return nil
}

// shear stores the displacement of the top edge (mag_x) and the left edge
// (mag_y) in millimeters.
func (h *handle) shear(args attrs.Map) error {
	h.shearX, _ = attrs.ToFloat(args["mag_x"])
	h.shearY, _ = attrs.ToFloat(args["mag_y"])
	return nil
}
