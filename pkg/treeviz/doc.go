// Package treeviz draws the object tree of a figure as a Graphviz diagram.
//
// Layout bugs are easier to find in a picture of the tree than in a picture
// of the card: every object becomes a box labeled with its key, and edges
// run from parent to child in insertion order.
//
//	dot := treeviz.ToDOT(fig.Container(), treeviz.Options{Detailed: true})
//	svg, err := treeviz.RenderSVG(dot)
//
// With Detailed set, labels also carry the object's geometry in millimeters
// and its effects in application order.
package treeviz
