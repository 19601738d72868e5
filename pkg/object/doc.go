// Package object implements the figure object tree: hierarchical rectangles
// positioned by a box model of size, margin, alignment and offset.
//
// # Arena
//
// Every [Object] lives in an [Arena]. Objects refer to their parent and
// children by [ID], never by pointer, so detaching and re-attaching a subtree
// cannot leave dangling or doubly-owned nodes. The arena also carries the
// rendering [Backend] and the logger shared by all of its objects.
//
// # Geometry
//
// Sizes, margins and offsets are in millimeters. A size of 0 on an axis makes
// the object dynamic on that axis: it grows to the bounding box of its
// children (child size plus child offset). An object is aligned inside its
// parent's canvas, which is the parent's size inset by its margin:
//
//	relBegin = offset + {left: PB, right: PE-S, center: PB+(PS-S)/2}
//	absBegin = parent.absBegin + relBegin
//
// Geometry is computed on demand from the current tree, so it is never stale
// after a reparent. Pixel variants truncate toward zero.
//
// # Keys
//
// Child keys are unique. Inserting a second "label" under one parent names it
// "label_2", a third "label_3". Removing one renumbers the remaining siblings
// compactly.
//
// # Drawing
//
// [Object.Draw] walks the subtree pre-order. Roots call the backend's
// PreDrawRoot first and PostDrawRoot after all descendants; every object
// calls PreDrawObject, applies its effects in rank order, then calls
// PostDrawObject. Later children draw on top of earlier ones.
package object
