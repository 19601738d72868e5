package svg

import (
	"fmt"
	"math"
	"path/filepath"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/fonts"
	"github.com/matzehuels/cardstack/pkg/units"
)

const placeholder = "#d3d3d3"

func argColor(args attrs.Map, key string) (string, error) {
	s, _ := attrs.ToString(args[key])
	c, err := backend.ParseColor(s)
	if err != nil {
		return "", errors.Wrap(errors.GetCode(err), err, "argument %s", key)
	}
	return backend.Hex(c), nil
}

// paint fills the object with style. With frame set only the margin around
// the canvas is painted.
func (h *handle) paint(style string, frame bool) {
	w, ht := h.size()
	if !frame {
		h.out.Rect(0, 0, w, ht, style)
		return
	}
	m := h.o.MarginPx()
	if m <= 0 {
		return
	}
	d := fmt.Sprintf("M0,0 H%d V%d H0 Z M%d,%d V%d H%d V%d Z", w, ht, m, m, ht-m, w-m, m)
	h.out.Path(d, style+";fill-rule:evenodd")
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
	h.paint("fill:"+c, frame)
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
	id := h.doc.nextID("pattern")
	h.out.Def()
	h.out.Pattern(id, 0, 0, 2*cell, 2*cell, "user")
	h.out.Rect(0, 0, 2*cell, 2*cell, "fill:"+bg)
	h.out.Rect(0, 0, cell, cell, "fill:"+fg)
	h.out.Rect(cell, cell, cell, cell, "fill:"+fg)
	h.out.PatternEnd()
	h.out.DefEnd()
	h.paint(fmt.Sprintf("fill:url(#%s)", id), frame)
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
	dx, dy := math.Cos(angle*math.Pi/180), math.Sin(angle*math.Pi/180)
	pct := func(v float64) uint8 { return uint8(math.Round(50 + 50*v)) }
	id := h.doc.nextID("gradient")
	h.out.Def()
	h.out.LinearGradient(id, pct(-dx), pct(-dy), pct(dx), pct(dy), []svgo.Offcolor{
		{Offset: 0, Color: start, Opacity: 1},
		{Offset: 100, Color: end, Opacity: 1},
	})
	h.out.DefEnd()
	h.paint(fmt.Sprintf("fill:url(#%s)", id), false)
	return nil
}

// fillPicture places the image at path over the canvas area, stretched to
// fit. An empty path paints a placeholder.
func (h *handle) fillPicture(args attrs.Map) error {
	path, _ := attrs.ToString(args["path"])
	cb, cs := h.o.CanvasBeginPx(), h.o.CanvasSizePx()
	if cs[0] <= 0 || cs[1] <= 0 {
		return nil
	}
	if path == "" {
		h.out.Rect(cb[0], cb[1], cs[0], cs[1], "fill:"+placeholder)
		return nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	h.out.Image(cb[0], cb[1], cs[0], cs[1], "file://"+filepath.ToSlash(path), `preserveAspectRatio="none"`)
	return nil
}

// text places text within the canvas area, vertically centered. The
// background color is not painted.
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
	justify, _ := attrs.ToString(args["justify"])
	sizePx := float64(units.PtToPx(backend.TextSizePt(h.o, effect.Effect{Kind: effect.KindText, Args: args}), h.o.PPI()))

	cb, cs := h.o.CanvasBeginPx(), h.o.CanvasSizePx()
	x, anchor := cb[0], "start"
	switch justify {
	case "center":
		x, anchor = cb[0]+cs[0]/2, "middle"
	case "right":
		x, anchor = cb[0]+cs[0], "end"
	}
	weight := "normal"
	if bold {
		weight = "bold"
	}
	style := fmt.Sprintf("font-family:%s;font-size:%gpx;font-weight:%s;fill:%s;text-anchor:%s;dominant-baseline:central",
		fonts.FallbackFontFamily, sizePx, weight, fg, anchor)
	h.out.Text(x, cb[1]+cs[1]/2, s, style)
	return nil
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
