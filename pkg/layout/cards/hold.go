package cards

import (
	"fmt"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/object"
)

var holdDefaults = attrs.Map{
	"back_artifacts_group_xalign":       "center",
	"back_artifacts_group_add_yoffs_mm": 4,

	"category_icons_group_xalign":   "center",
	"category_icons_group_yalign":   "bottom",
	"category_icons_group_yoffs_mm": -3,

	"importance_group_xoffs_mm": 1,
	"importance_group_yoffs_mm": 1,

	"category_importance":           1,
	"category_importance_width_mm":  5,
	"category_importance_height_mm": 5,
	"category_importance_yalign":    "center",
	"category_importance_draw": attrs.Map{
		"effect_text": attrs.Map{"type": ""},
	},

	"class_importance":              1,
	"class_importance_width_mm":     4.5,
	"class_importance_height_mm":    4.5,
	"class_importance_yalign":       "center",
	"class_importance_xloc":         "rightof",
	"class_importance_add_xoffs_mm": 0.2,
	"class_importance_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},

	"prestige":                0,
	"prestige_group_xoffs_mm": 0.5,
	"prestige_group_yalign":   "bottom",
	"prestige_group_yoffs_mm": -0.5,
	"prestige_text_width_mm":  6,
	"prestige_text_height_mm": 3,
	"prestige_text_draw": attrs.Map{
		"effect_text": attrs.Map{"type": ""},
	},
}

// hold adds the parts shared by every card a player holds: importance
// markers in both upper corners of the back, the artifact and icon groups,
// and the prestige marker on the front.
type hold struct {
	card
}

func (h *hold) Run(rank int) (int, bool, error) { return run(h.Base, h, rank) }

func (h *hold) act(rank int) error {
	if err := h.card.act(rank); err != nil {
		return err
	}
	if rank != 0 {
		return nil
	}
	back, err := h.side(layout.TypeBack)
	if err != nil {
		return err
	}

	importance, err := h.AddGroup("importance", back, layout.ObjectOpts{})
	if err != nil {
		return err
	}
	if _, err := h.AddToGroup("category_importance", importance,
		layout.ObjectOpts{Draw: h.text("category_importance")}, layout.PlaceOpts{}); err != nil {
		return err
	}
	if _, err := h.AddToGroup("class_importance", importance, layout.ObjectOpts{}, layout.PlaceOpts{}); err != nil {
		return err
	}
	if _, err := h.AddObjectCopy(importance, layout.CopyOpts{LocX: layout.Ptr(object.LocMirror)}); err != nil {
		return err
	}

	artifacts, err := h.AddGroup("back_artifacts", back, layout.ObjectOpts{})
	if err != nil {
		return err
	}
	add := h.Attrs().Float("back_artifacts_group_add_yoffs_mm")
	if err := artifacts.PositionRelativeTo(importance, object.LocNone, object.LocBelow, 0, add); err != nil {
		return err
	}

	if _, err := h.AddGroup("category_icons", back, layout.ObjectOpts{}); err != nil {
		return err
	}
	return h.addPrestige()
}

// addPrestige adds the prestige group to the front, with a signed text
// marker when the card has prestige.
func (h *hold) addPrestige() error {
	front, err := h.side(layout.TypeFront)
	if err != nil {
		return err
	}
	group, err := h.AddGroup("prestige", front, layout.ObjectOpts{})
	if err != nil {
		return err
	}
	p := h.Attrs().Int("prestige")
	if p == 0 {
		return nil
	}
	color := "lime"
	if p < 0 {
		color = "red"
	}
	draw := attrs.Map{"effect_text": attrs.Map{"text": fmt.Sprintf("%+d", p), "fg_color": color}}
	_, err = h.AddToGroup("prestige_text", group, layout.ObjectOpts{Draw: draw}, layout.PlaceOpts{})
	return err
}

// addIcon adds an icon sized like the back, scaled by "<key>_scale", with
// the back's border, right of the previous icon in group.
func (h *hold) addIcon(key string, group *object.Object) (*object.Object, error) {
	release := h.Scope().Enter(key)
	scale := attrs.ResolveFloat(h.Scope(), "scale", nil)
	release()

	obj, err := h.AddToGroup(key, group, layout.ObjectOpts{}, layout.PlaceOpts{LocX: layout.Ptr(object.LocRightOf)})
	if err != nil {
		return nil, err
	}
	back, err := h.side(layout.TypeBack)
	if err != nil {
		return nil, err
	}
	f := 1.0
	if scale != nil {
		f = *scale
	}
	obj.SetSizeFrom(back, true, f)
	if err := obj.AddEffectFrom(back, effect.KindBorder, nil); err != nil {
		return nil, err
	}
	return obj, nil
}
