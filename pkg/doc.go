// Package pkg provides the libraries behind cardstack, a layout engine for
// card artwork.
//
// # Overview
//
// A job describes one figure per source record. Each figure owns an object
// tree: rectangles with their own draw attributes, placed relative to their
// parent or to any object already in the tree. Layouts populate the tree, a
// backend paints it.
//
//	job.toml + cards.tsv
//	         ↓
//	    [loader] (records of layout and draw attributes)
//	         ↓
//	    [figure] (object tree + layout scheduler)
//	         ↓
//	    [layout] and [layout/cards] (object placement)
//	         ↓
//	    [backend] (print, raster, svg)
//	         ↓
//	    PNG/SVG/PDF output
//
// # Packages
//
//   - [attrs]: attribute maps, deep merge and layered lookup
//   - [units]: millimetre, point and pixel conversions
//   - [effect]: effect lists and the per-backend handler registry
//   - [object]: the object tree, geometry and drawing
//   - [layout]: the scheduler and built-in front and back layouts
//   - [figure]: figure and collection facades
//   - [pipeline]: load, layout and draw a whole job with caching
//   - [cache]: file, redis and null caches for rendered artifacts
//   - [treeviz]: Graphviz views of an object tree
//
// # Quick Start
//
//	cfg, err := config.Load("job.toml")
//	if err != nil {
//	    return err
//	}
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, cfg.Logger)
//	res, err := r.Execute(ctx, cfg)
package pkg
