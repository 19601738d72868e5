// Package loader reads figure attributes from delimiter-separated text.
//
// The first record of a source is the header. Every further record yields
// one [Record]: a pair of layout and draw attribute maps. A header "d_<key>"
// routes the column to the draw map as "<key>"; "l_<key>" and unprefixed
// headers route to the layout map. Values starting with "{" are YAML flow
// mappings, so a column can carry a whole layout configuration:
//
//	name	layout_card_spell	d_background
//	fire	{enabled: true, spell_mana: 3}	red
//
// Empty cells are left out. The delimiter must not be one of the flow
// mapping's own punctuation characters.
//
// A [DSV] loader remembers the sources it loaded. Loading the same source
// again returns no records and reports that nothing was loaded.
package loader
