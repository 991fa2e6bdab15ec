package dex

import (
	"fmt"
	"slices"
)

// IndexEntry is one row of the full remote list. ID is 0 when the list URL
// carried no numeric id.
type IndexEntry struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// FormIDBase is where PokeAPI starts numbering alternate forms. Pokemon ids
// below it equal their species id; ids at or above it have no species of
// their own.
const FormIDBase = 10000

// IDLabel renders the id as "#0001", or "#" when unknown.
func IDLabel(id int) string {
	if id <= 0 {
		return "#"
	}
	return fmt.Sprintf("#%04d", id)
}

// DetailRecord is the per-entry detail needed for rows and type filtering.
type DetailRecord struct {
	ID         int      `json:"id"`
	Types      []string `json:"types"`
	Artwork    string   `json:"artwork"`
	SpeciesURL string   `json:"species_url,omitempty"`
}

// HasTypes reports whether the record carries every type in want.
func (d DetailRecord) HasTypes(want []string) bool {
	for _, t := range want {
		if !slices.Contains(d.Types, t) {
			return false
		}
	}
	return true
}

// TypeNames lists the eighteen elemental types offered by the type picker.
var TypeNames = []string{
	"normal", "fire", "water", "electric", "grass", "ice",
	"fighting", "poison", "ground", "flying", "psychic", "bug",
	"rock", "ghost", "dragon", "dark", "steel", "fairy",
}
