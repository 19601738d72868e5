// Package cards registers layout types for playing cards with a front and a
// back side.
//
// All types extend "card", which places a name label and a picture on the
// front and, once the back is complete, a scaled miniature of the back next
// to the label. The more specific types add importance markers, artifact
// groups and icons:
//
//	card
//	└── card_hold        importance groups, artifact and icon groups, prestige
//	    └── card_play    optional "play with" label, forced-play marker
//	        ├── card_basic
//	        ├── card_class   class emblems on both sides
//	        ├── card_spell   spell class and mana cost
//	        ├── card_mana    two miniatures
//	        └── card_kind    kind labels and icons, added on top of another card type
//
// Card types are disabled by default. A figure enables one with an attribute
// entry such as {"layout_card_spell": {"enabled": true, "spell_mana": 3}}.
// Importing the package registers the types.
package cards
