// Package figure drives the layout and drawing of figures.
//
// A [Figure] owns an object arena, a container sized to the figure that
// holds the root objects, the rendering backend and a layout scheduler. The
// layouts are instantiated from "layout_<type>" attributes:
//
//	f, err := figure.New(figure.Options{
//	    Width:   63,
//	    Height:  88,
//	    Layouts: layout.DefaultAttrs(),
//	})
//	if err != nil {
//	    return err
//	}
//	ran, err := f.Step(0, 0, false)
//
// [Figure.RunLayout] marks the figure dirty whenever a layout ran, and
// [Figure.RunDraw] only draws dirty figures unless forced. Both are
// resumable, so a figure can be built one layout at a time.
//
// # Collections
//
// A [Collection] builds many figures that share size, resolution and
// attributes, typically from records produced by a [Loader]:
//
//	c := figure.NewCollection(figure.CollectionOptions{PPI: 300, Width: 63, Height: 88})
//	ran, err := c.LoadAndDoFigures(dsv, "cards.tsv", 0, 0, false)
package figure
