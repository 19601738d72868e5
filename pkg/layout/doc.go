// Package layout populates figures through ranked layout recipes.
//
// A layout is a named recipe that creates and positions figure objects. Its
// work is split into ranks: integer stages that run in ascending order
// across all layouts of a figure, so a layout acting at rank 10 can rely on
// everything any layout did at rank 0.
//
// # Types
//
// Layout types are registered once, from package init functions, with
// [Register]. A type may extend a parent type: its rank set is the sorted
// union of its own and its ancestors' ranks, and its default attributes are
// deep-merged over the parent's. Both are computed at registration.
//
//	func init() {
//	    layout.Register(layout.Type{
//	        Name:     "badge",
//	        Ranks:    []int{0},
//	        Defaults: attrs.Map{"badge_width_mm": 8},
//	        New:      func(b *layout.Base) layout.Layout { return &badge{b} },
//	    })
//	}
//
// # Scheduling
//
// A [Scheduler] holds the layouts of one figure ordered by priority and runs
// them rank by rank. It is resumable: budgets limit how many ranks or
// layouts one call to [Scheduler.Run] processes, and the next call picks up
// where the previous one stopped.
//
// # Builder Helpers
//
// [Base] is embedded by every layout. Its helpers take options structs whose
// nil fields resolve from the layout's attributes: first "<key>_<param>",
// then "<param>". A layout with {"label_width_mm": 28} therefore builds its
// "label" object 28mm wide unless the call sets a width explicitly.
package layout
