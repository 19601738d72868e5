package cards

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/object"
)

var kindDefaults = attrs.Map{
	"priority": 7,

	"kind_label_add_yoffs_mm": -0.5,
	"kind_label_new_width_mm": 15,
	"kind_label_scale":        0.75,
	"kind_label_draw": attrs.Map{
		"effect_fill": attrs.Map{"end_color": "cyan"},
		"effect_text": attrs.Map{"text": "Kind name"},
	},

	"back_kind_label_xloc":         "center",
	"back_kind_label_yloc":         "below",
	"back_kind_label_add_yoffs_mm": 5,
	"back_kind_label_scale":        1.5,

	"no_steal_scale":        0.15,
	"no_steal_add_xoffs_mm": 1,
	"no_steal_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},

	"no_dump":              true,
	"no_dump_scale":        0.15,
	"no_dump_add_xoffs_mm": 1,
	"no_dump_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},
}

// kind adds kind labels and icons on top of another card layout. It reuses
// the attributes and helpers of the playable cards but none of their
// actions, so it runs after the card layout that built the groups it fills.
type kind struct {
	play
}

func (k *kind) Run(rank int) (int, bool, error) { return run(k.Base, k, rank) }

func (k *kind) act(rank int) error {
	if rank != 0 {
		return nil
	}
	label, err := k.part(layout.TypeFront, "label")
	if err != nil {
		return err
	}
	back, err := k.side(layout.TypeBack)
	if err != nil {
		return err
	}
	artifacts, err := k.group(layout.TypeBack, "back_artifacts")
	if err != nil {
		return err
	}
	icons, err := k.group(layout.TypeBack, "category_icons")
	if err != nil {
		return err
	}

	front, err := k.AddObjectCopy(label, layout.CopyOpts{Key: "kind_label", LocY: layout.Ptr(object.LocAbove)})
	if err != nil {
		return err
	}
	none := layout.Ptr(object.LocNone)
	zero := layout.Ptr(0.0)
	onBack, err := k.AddObjectCopy(front, layout.CopyOpts{
		Key:        "back_kind_label",
		Parent:     back,
		LocX:       none,
		LocY:       none,
		AddOffsetX: zero,
		AddOffsetY: zero,
	})
	if err != nil {
		return err
	}
	if err := k.PlaceInGroup(artifacts, onBack, layout.PlaceOpts{}); err != nil {
		return err
	}

	if _, err := k.addIcon("no_steal", icons); err != nil {
		return err
	}
	if k.Attrs().Bool("no_dump") {
		_, err = k.addIcon("no_dump", icons)
	}
	return err
}
