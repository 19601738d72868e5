package cards

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/layout"
	"github.com/matzehuels/cardstack/pkg/object"
)

var playDefaults = attrs.Map{
	"play_with_yloc":         "below",
	"play_with_add_yoffs_mm": 1,
	"play_with_scale":        0.7,
	"play_with_draw": attrs.Map{
		"effect_fill": attrs.Map{"end_color": "red"},
		"effect_text": attrs.Map{"text": ""},
	},

	"force_play":                   false,
	"back_force_play_width_mm":     9,
	"back_force_play_height_mm":    22,
	"back_force_play_xalign":       "center",
	"back_force_play_yloc":         "below",
	"back_force_play_add_yoffs_mm": 3,
	"back_force_play_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},
}

// play adds the parts of cards that are played: a "play with" label copied
// from the name label and the forced-play marker.
type play struct {
	hold
}

func (p *play) Run(rank int) (int, bool, error) { return run(p.Base, p, rank) }

func (p *play) act(rank int) error {
	if err := p.hold.act(rank); err != nil {
		return err
	}
	switch rank {
	case 0:
		spec, _ := attrs.AsMap(p.Attrs().Sub("play_with_draw").Get("effect_text"))
		with, _ := attrs.ToString(spec["text"])
		if with == "" {
			return nil
		}
		label, err := p.part(layout.TypeFront, "label")
		if err != nil {
			return err
		}
		obj, err := p.AddObjectCopy(label, layout.CopyOpts{Key: "play_with"})
		if err != nil {
			return err
		}
		obj.SetEffectArgs(effect.KindText, attrs.Map{"text": "+" + with})
	case 1:
		if !p.Attrs().Bool("force_play") {
			return nil
		}
		artifacts, err := p.group(layout.TypeBack, "back_artifacts")
		if err != nil {
			return err
		}
		_, err = p.AddToGroup("back_force_play", artifacts, layout.ObjectOpts{}, layout.PlaceOpts{})
		return err
	}
	return nil
}

// basic is a plain playable card.
type basic struct {
	play
}

func (b *basic) Run(rank int) (int, bool, error) { return run(b.Base, b, rank) }

var classDefaults = attrs.Map{
	"front_class_width_mm":  10.8,
	"front_class_height_mm": 10.8,
	"front_class_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},

	"back_class_width_mm":     18,
	"back_class_height_mm":    18,
	"back_class_xalign":       "center",
	"back_class_yloc":         "below",
	"back_class_add_yoffs_mm": 6,
	"back_class_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
	},
}

// class shows the card's class emblem among the back artifacts and, once
// the miniature exists, opposite to it on the front.
type class struct {
	play
}

func (c *class) Run(rank int) (int, bool, error) { return run(c.Base, c, rank) }

func (c *class) act(rank int) error {
	if err := c.play.act(rank); err != nil {
		return err
	}
	switch rank {
	case 0:
		artifacts, err := c.group(layout.TypeBack, "back_artifacts")
		if err != nil {
			return err
		}
		_, err = c.AddToGroup("back_class", artifacts, layout.ObjectOpts{}, layout.PlaceOpts{})
		return err
	case 11:
		mini, err := c.part(layout.TypeFront, "mini")
		if err != nil {
			return err
		}
		label, err := c.part(layout.TypeFront, "label")
		if err != nil {
			return err
		}
		obj, err := c.AddObject("front_class", layout.ObjectOpts{Parent: mini.Parent()})
		if err != nil {
			return err
		}
		if err := obj.PositionRelativeTo(mini, object.LocMirror, object.LocNone, 0, 0); err != nil {
			return err
		}
		return obj.PositionRelativeTo(label, object.LocNone, object.LocCenterOf, 0, 0)
	}
	return nil
}

var spellDefaults = attrs.Map{
	"spell_class":              1,
	"spell_class_width_mm":     20,
	"spell_class_height_mm":    20,
	"spell_class_xalign":       "center",
	"spell_class_yloc":         "below",
	"spell_class_add_yoffs_mm": 6,
	"spell_class_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "picture"},
		"effect_text": attrs.Map{"size_pt": 24, "fg_color": "black"},
	},

	"spell_mana": 2,
	"spell_mana_draw": attrs.Map{
		"effect_fill": attrs.Map{"type": "color", "color": "blue"},
		"effect_text": attrs.Map{"size_pt": 12, "fg_color": "white"},
	},
}

// spell shows the spell class on the back and the mana cost opposite to the
// miniature on the front.
type spell struct {
	play
}

func (s *spell) Run(rank int) (int, bool, error) { return run(s.Base, s, rank) }

func (s *spell) act(rank int) error {
	if err := s.play.act(rank); err != nil {
		return err
	}
	switch rank {
	case 0:
		artifacts, err := s.group(layout.TypeBack, "back_artifacts")
		if err != nil {
			return err
		}
		_, err = s.AddToGroup("spell_class", artifacts, layout.ObjectOpts{Draw: s.text("spell_class")}, layout.PlaceOpts{})
		return err
	case 11:
		mini, err := s.part(layout.TypeFront, "mini")
		if err != nil {
			return err
		}
		obj, err := s.AddObject("spell_mana", layout.ObjectOpts{Parent: mini.Parent(), Draw: s.text("spell_mana")})
		if err != nil {
			return err
		}
		obj.SetSizeFrom(mini, false, 1)
		return obj.PositionRelativeTo(mini, object.LocMirror, object.LocSameAs, 0, 0)
	}
	return nil
}

// mana shows two miniatures.
type mana struct {
	play
}

func (m *mana) Run(rank int) (int, bool, error) { return run(m.Base, m, rank) }
