package cards

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/layout"
)

func init() {
	layout.Register(layout.Type{
		Name:     TypeCard,
		Ranks:    []int{0, 10},
		Defaults: cardDefaults,
		New:      func(b *layout.Base) layout.Layout { return &card{b} },
	})
	layout.Register(layout.Type{
		Name:     TypeHold,
		Parent:   TypeCard,
		Ranks:    []int{0},
		Defaults: holdDefaults,
		New:      func(b *layout.Base) layout.Layout { return &hold{card{b}} },
	})
	layout.Register(layout.Type{
		Name:     TypePlay,
		Parent:   TypeHold,
		Ranks:    []int{0, 1},
		Defaults: playDefaults,
		New:      func(b *layout.Base) layout.Layout { return &play{hold{card{b}}} },
	})
	layout.Register(layout.Type{
		Name:   TypeBasic,
		Parent: TypePlay,
		New:    func(b *layout.Base) layout.Layout { return &basic{play{hold{card{b}}}} },
	})
	layout.Register(layout.Type{
		Name:     TypeClass,
		Parent:   TypePlay,
		Ranks:    []int{0, 11},
		Defaults: classDefaults,
		New:      func(b *layout.Base) layout.Layout { return &class{play{hold{card{b}}}} },
	})
	layout.Register(layout.Type{
		Name:     TypeSpell,
		Parent:   TypePlay,
		Ranks:    []int{0, 11},
		Defaults: spellDefaults,
		New:      func(b *layout.Base) layout.Layout { return &spell{play{hold{card{b}}}} },
	})
	layout.Register(layout.Type{
		Name:     TypeMana,
		Parent:   TypePlay,
		Defaults: attrs.Map{"mini_2": true},
		New:      func(b *layout.Base) layout.Layout { return &mana{play{hold{card{b}}}} },
	})
	layout.Register(layout.Type{
		Name:     TypeKind,
		Parent:   TypePlay,
		Ranks:    []int{0},
		Defaults: kindDefaults,
		New:      func(b *layout.Base) layout.Layout { return &kind{play{hold{card{b}}}} },
	})
}

// PresetAttrs returns figure layout attributes for card figures: styled
// front and back roots. Card types are added per figure by enabling them.
func PresetAttrs() attrs.Map {
	return attrs.Map{
		layout.AttrPrefix + layout.TypeFront: attrs.Map{
			"front_margin_mm": 3,
			"front_draw": attrs.Map{
				"effect_fill":   attrs.Map{"type": "gradient", "start_color": "black", "end_color": "white", "angle": 90},
				"effect_border": attrs.Map{"type": "color", "color": "white"},
			},
		},
		layout.AttrPrefix + layout.TypeBack: attrs.Map{
			"back_margin_mm": 7.5,
			"back_draw": attrs.Map{
				"effect_fill":   attrs.Map{"type": "pattern"},
				"effect_border": attrs.Map{"type": "color", "color": "white"},
			},
		},
	}
}
