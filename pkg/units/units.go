// Package units converts between millimeters, points and pixels.
//
// Layouts are specified in millimeters and fonts in points; backends work in
// pixels at the figure's resolution. Conversions to pixels truncate toward
// zero. Conversions from pixels are exact.
package units

const (
	// MmPerInch is the number of millimeters in an inch.
	MmPerInch = 25.4

	// PtPerInch is the number of typographic points in an inch.
	PtPerInch = 72.0
)

// MMToPx converts millimeters to whole pixels at ppi.
func MMToPx(mm, ppi float64) int {
	return int(mm * ppi / MmPerInch)
}

// PxToMM converts pixels to millimeters at ppi.
func PxToMM(px int, ppi float64) float64 {
	return float64(px) * MmPerInch / ppi
}

// PtToPx converts points to whole pixels at ppi.
func PtToPx(pt, ppi float64) int {
	return int(pt * ppi / PtPerInch)
}

// PxToPt converts pixels to points at ppi.
func PxToPt(px int, ppi float64) float64 {
	return float64(px) * PtPerInch / ppi
}

// MMToPt converts millimeters to points.
func MMToPt(mm float64) float64 {
	return mm * PtPerInch / MmPerInch
}

// PtToMM converts points to millimeters.
func PtToMM(pt float64) float64 {
	return pt * MmPerInch / PtPerInch
}

// Vec is a two-component value in millimeters, indexed by axis.
type Vec [2]float64

// X returns the horizontal component.
func (v Vec) X() float64 { return v[0] }

// Y returns the vertical component.
func (v Vec) Y() float64 { return v[1] }

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v[0] + o[0], v[1] + o[1]} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v[0] - o[0], v[1] - o[1]} }

// Scale returns v * f.
func (v Vec) Scale(f float64) Vec { return Vec{v[0] * f, v[1] * f} }

// Px converts v to whole pixels at ppi.
func (v Vec) Px(ppi float64) [2]int {
	return [2]int{MMToPx(v[0], ppi), MMToPx(v[1], ppi)}
}
