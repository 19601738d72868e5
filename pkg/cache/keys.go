package cache

import "sort"

// FigureKeyOpts are the render settings that change a figure's artifacts.
type FigureKeyOpts struct {
	Backend string
	Formats []string
	PPI     float64
	Width   float64
	Height  float64
	Version string
}

// Keyer builds cache keys.
type Keyer interface {
	// FigureKey returns the key of a figure's artifacts. attrsHash is the
	// hash of the figure's layout and draw attributes.
	FigureKey(attrsHash string, opts FigureKeyOpts) string
}

// DefaultKeyer builds keys of the form "figure:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FigureKey hashes attrsHash with opts. The order of formats does not
// matter.
func (DefaultKeyer) FigureKey(attrsHash string, opts FigureKeyOpts) string {
	formats := append([]string(nil), opts.Formats...)
	sort.Strings(formats)
	return hashKey("figure", attrsHash, opts.Backend, formats, opts.PPI, opts.Width, opts.Height, opts.Version)
}

var _ Keyer = DefaultKeyer{}
