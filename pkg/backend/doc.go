// Package backend provides the rendering backends for figure objects.
//
// # Overview
//
// A backend implements [object.Backend]: it hands out a draw handle per
// figure object, owns one shared resource per root object (a canvas, an SVG
// document) and applies effects through an [effect.Registry]. Three backends
// ship with cardstack:
//
//   - [printer]: writes the object tree and text effects to a terminal
//   - [raster]: draws each root into an image and encodes it as PNG
//   - [svg]: emits each root as an SVG document, optionally converted to
//     PNG or PDF with rsvg-convert
//
// Backends register a [Factory] under their name in init, so callers select
// one by name:
//
//	b, err := backend.New("raster", drawAttrs, backend.Options{Logger: logger})
//
// # Artifacts
//
// Backends that produce files implement [Producer]. Each finished root adds
// one [Artifact] per output format, named by the arena's figure prefix and
// the root key ("001-fire_front.png"). [Producer.Artifacts] drains the list.
//
// # Figure Draw Attributes
//
// The draw attributes of a figure configure its backend. Every backend
// accepts:
//
//   - background: canvas color behind each root (default transparent)
//   - pattern_fg, pattern_bg: the two colors of the pattern fill and border
//   - pattern_size_mm: the checker cell size of patterns
//
// [printer]: github.com/matzehuels/cardstack/pkg/backend/printer
// [raster]: github.com/matzehuels/cardstack/pkg/backend/raster
// [svg]: github.com/matzehuels/cardstack/pkg/backend/svg
package backend
