package catalog

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jlrickert/dexview/pkg/pokeapi"
)

// Card is the summary shown for a search or random result.
type Card struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Types    []string `json:"types" yaml:"types"`
	Artwork  string   `json:"artwork,omitempty" yaml:"artwork,omitempty"`
	HeightM  float64  `json:"height_m" yaml:"height_m"`
	WeightKg float64  `json:"weight_kg" yaml:"weight_kg"`
}

// NewCard converts API units (decimetres, hectograms) to metres and
// kilograms.
func NewCard(p pokeapi.Pokemon) Card {
	return Card{
		ID:       p.ID,
		Name:     p.Name,
		Types:    p.TypeNames(),
		Artwork:  p.Artwork(),
		HeightM:  float64(p.Height) / 10,
		WeightKg: float64(p.Weight) / 10,
	}
}

// IDLabel pads the id to four digits: "#0025".
func (c Card) IDLabel() string {
	return fmt.Sprintf("#%04d", c.ID)
}

// Title capitalizes the first letter of the name.
func (c Card) Title() string {
	return Capitalize(c.Name)
}

func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Stat is one base stat with its display label and bar percentage.
type Stat struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label" yaml:"label"`
	Value   int    `json:"value" yaml:"value"`
	Percent int    `json:"percent" yaml:"percent"`
}

// MaxStat is the value a full stat bar represents.
const MaxStat = 255

func NewStat(s pokeapi.PokemonStat) Stat {
	return Stat{
		Name:    s.Stat.Name,
		Label:   StatLabel(s.Stat.Name),
		Value:   s.BaseStat,
		Percent: StatPercent(s.BaseStat),
	}
}

// StatLabel replaces the first "-" with a space and uppercases:
// "special-attack" becomes "SPECIAL ATTACK".
func StatLabel(name string) string {
	return strings.ToUpper(strings.Replace(name, "-", " ", 1))
}

// StatPercent is min(100, round(v/255*100)).
func StatPercent(v int) int {
	p := int(math.Round(float64(v) / MaxStat * 100))
	return min(100, max(0, p))
}

type Ability struct {
	Name   string `json:"name" yaml:"name"`
	Hidden bool   `json:"hidden" yaml:"hidden"`
}

// Label appends " (hidden)" for hidden abilities.
func (a Ability) Label() string {
	if a.Hidden {
		return a.Name + " (hidden)"
	}
	return a.Name
}
