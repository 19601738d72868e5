package cards

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/object"
)

// Layout type names.
const (
	TypeCard  = "card"
	TypeHold  = "card_hold"
	TypePlay  = "card_play"
	TypeBasic = "card_basic"
	TypeClass = "card_class"
	TypeSpell = "card_spell"
	TypeMana  = "card_mana"
	TypeKind  = "card_kind"
)

var cardDefaults = attrs.Map{
	"enabled":  false,
	"priority": 5,

	"mini_height_mm":    12.5,
	"mini_xloc":         "right",
	"mini_add_xoffs_mm": -1,
	"mini_yloc":         "centerof",

	"mini_2":       false,
	"mini_2_xloc":  "mirror",
	"mini_2_scale": 1.2,

	"label_width_mm":  28,
	"label_height_mm": 5,
	"label_margin_mm": 0.4,
	"label_xalign":    "center",
	"label_xoffs_mm":  1.1,
	"label_yoffs_mm":  5,
	"label_draw": attrs.Map{
		"effect_fill":   attrs.Map{"type": "gradient", "start_color": "white", "end_color": "lime", "angle": 80},
		"effect_border": attrs.Map{"type": "color", "color": "black"},
		"effect_text":   attrs.Map{"type": "", "text": "Card name", "fg_color": "black", "size_pt": 9.5},
		"effect_shear":  attrs.Map{"mag_x": -1.5},
	},

	"picture_width_mm":     30,
	"picture_height_mm":    45,
	"picture_xalign":       "left",
	"picture_xoffs_mm":     1,
	"picture_yloc":         "below",
	"picture_add_yoffs_mm": 10,
	"picture_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},
}

// actor is implemented by every card layout. act performs the layout's own
// actions for rank, including those of the types it extends.
type actor interface {
	act(rank int) error
}

func run(b *layout.Base, a actor, rank int) (int, bool, error) {
	if err := a.act(rank); err != nil {
		return 0, false, err
	}
	return b.Run(rank)
}

// card places the label and picture on the front and the back miniature.
type card struct {
	*layout.Base
}

func (c *card) Run(rank int) (int, bool, error) { return run(c.Base, c, rank) }

func (c *card) act(rank int) error {
	front, err := c.side(layout.TypeFront)
	if err != nil {
		return err
	}
	switch rank {
	case 0:
		label, err := c.AddObject("label", layout.ObjectOpts{Parent: front})
		if err != nil {
			return err
		}
		pic, err := c.AddObject("picture", layout.ObjectOpts{Parent: front})
		if err != nil {
			return err
		}
		return pic.PositionRelativeTo(label, object.LocNone, c.loc("picture_yloc"), 0, c.Attrs().Float("picture_add_yoffs_mm"))
	case 10:
		label, err := c.part(layout.TypeFront, "label")
		if err != nil {
			return err
		}
		mini, err := c.addBackMini(layout.CopyOpts{})
		if err != nil {
			return err
		}
		if err := mini.PositionRelativeTo(label, object.LocNone, c.loc("mini_yloc"), 0, 0); err != nil {
			return err
		}
		if c.Attrs().Bool("mini_2") {
			_, err = c.AddObjectCopy(mini, layout.CopyOpts{Key: "mini_2"})
		}
		return err
	}
	return nil
}

// addBackMini copies the back onto the front, scaled to "mini_height_mm".
func (c *card) addBackMini(opts layout.CopyOpts) (*object.Object, error) {
	front, err := c.side(layout.TypeFront)
	if err != nil {
		return nil, err
	}
	back, err := c.side(layout.TypeBack)
	if err != nil {
		return nil, err
	}
	if back.Height() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "back has no height to scale the miniature from")
	}
	opts.Key = "mini"
	opts.Parent = front
	opts.Scale = layout.Ptr(c.Attrs().Float("mini_height_mm") / back.Height())
	return c.AddObjectCopy(back, opts)
}

// side returns the root object key, which card layouts require.
func (c *card) side(key string) (*object.Object, error) {
	if r := c.Root(key); r != nil {
		return r, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "layout %q needs the %q root object", c.Key(), key)
}

// part returns the first child of root key whose key base is base.
func (c *card) part(key, base string) (*object.Object, error) {
	r, err := c.side(key)
	if err != nil {
		return nil, err
	}
	if o := r.ChildByBase(base, 0); o != nil {
		return o, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "layout %q needs %q on %q", c.Key(), base, key)
}

// group returns the group keyed "<prefix>_group" under root key.
func (c *card) group(key, prefix string) (*object.Object, error) {
	return c.part(key, prefix+"_group")
}

func (c *card) loc(key string) object.Loc {
	return object.Loc(c.Attrs().String(key))
}

func (c *card) text(key string) attrs.Map {
	return attrs.Map{"effect_text": attrs.Map{"text": c.Attrs().String(key)}}
}
