package svg

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/matzehuels/cardstack/pkg/errors"
)

// converter turns an SVG document into another format at ppi.
type converter func(svg []byte, format string, ppi float64) ([]byte, error)

// rsvgConvert shells out to rsvg-convert for format conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func rsvgConvert(svg []byte, format string, ppi float64) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeBackend, "%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	dpi := fmt.Sprintf("%g", ppi)
	cmd := exec.Command("rsvg-convert", "-f", format, "--dpi-x", dpi, "--dpi-y", dpi)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
