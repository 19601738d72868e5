package backend

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/matzehuels/cardstack/pkg/errors"
)

// ParseColor parses an SVG color name ("red", "cornflowerblue"), "none" or
// "transparent", or a hex color "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "none", "transparent":
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if !strings.HasPrefix(name, "#") {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidInput, "unknown color %q", s)
	}
	if err := errors.ValidateHexColor(name); err != nil {
		return color.NRGBA{}, err
	}
	hex := name[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbb", or "none" when fully transparent.
func Hex(c color.NRGBA) string {
	if c.A == 0 {
		return "none"
	}
	return "#" + hex2(c.R) + hex2(c.G) + hex2(c.B)
}

func hex2(v uint8) string {
	s := strconv.FormatUint(uint64(v), 16)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
