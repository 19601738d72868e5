// Package fonts provides the font faces used for raster and SVG text.
//
// The Go font family is compiled into the binary through
// golang.org/x/image/font/gofont, so text renders identically on every
// machine without a system font lookup.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name used in SVG output.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for viewers that ignore the
// embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the regular TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// BoldTTF returns the bold TTF font data.
func BoldTTF() []byte {
	return gobold.TTF
}

var (
	parseOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	parseErr  error
)

func parsed() (*opentype.Font, *opentype.Font, error) {
	parseOnce.Do(func() {
		if regular, parseErr = opentype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = opentype.Parse(gobold.TTF)
	})
	return regular, bold, parseErr
}

// Face returns a face of the given point size at dpi.
func Face(isBold bool, sizePt, dpi float64) (font.Face, error) {
	reg, b, err := parsed()
	if err != nil {
		return nil, err
	}
	f := reg
	if isBold {
		f = b
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularTTFBase64 returns the regular TTF data as a base64 string for
// embedding in an SVG @font-face rule.
// The result is cached after first computation.
func RegularTTFBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}
