package catalog

import (
	"strings"

	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/pokeapi"
)

// Profile is the full detail view of one entry.
type Profile struct {
	Card           Card      `json:"card" yaml:"card"`
	Flavor         string    `json:"flavor" yaml:"flavor"`
	BaseExperience *int      `json:"base_experience" yaml:"base_experience"`
	BaseStatTotal  int       `json:"base_stat_total" yaml:"base_stat_total"`
	CaptureRate    int       `json:"capture_rate" yaml:"capture_rate"`
	GrowthRate     string    `json:"growth_rate" yaml:"growth_rate"`
	Generation     string    `json:"generation,omitempty" yaml:"generation,omitempty"`
	Abilities      []Ability `json:"abilities" yaml:"abilities"`
	Stats          []Stat    `json:"stats" yaml:"stats"`
	Evolution      []string  `json:"evolution" yaml:"evolution"`
}

// NewProfile assembles a Profile from the three API resources. chain may be
// the zero value when the species has no evolution chain.
func NewProfile(p pokeapi.Pokemon, sp pokeapi.Species, chain pokeapi.EvolutionChain) Profile {
	out := Profile{
		Card:           NewCard(p),
		Flavor:         EnglishFlavor(sp.FlavorTextEntries),
		BaseExperience: p.BaseExperience,
		CaptureRate:    sp.CaptureRate,
		GrowthRate:     sp.GrowthRate.Name,
		Generation:     dex.GenerationLabel(sp.Generation.Name),
		Evolution:      EvolutionLine(chain.Chain),
	}
	for _, a := range p.Abilities {
		out.Abilities = append(out.Abilities, Ability{Name: a.Ability.Name, Hidden: a.IsHidden})
	}
	for _, s := range p.Stats {
		out.Stats = append(out.Stats, NewStat(s))
		out.BaseStatTotal += s.BaseStat
	}
	return out
}

// EnglishFlavor returns the first English flavor text with form feeds and
// line breaks turned into spaces.
func EnglishFlavor(entries []pokeapi.FlavorText) string {
	for _, e := range entries {
		if e.Language.Name != "en" {
			continue
		}
		r := strings.NewReplacer("\f", " ", "\r\n", " ", "\n", " ", "\r", " ")
		return strings.TrimSpace(r.Replace(e.FlavorText))
	}
	return ""
}

// EvolutionLine follows the first branch of the chain from its root.
func EvolutionLine(root pokeapi.ChainLink) []string {
	var names []string
	for cur := &root; cur != nil && cur.Species.Name != ""; {
		names = append(names, cur.Species.Name)
		if len(cur.EvolvesTo) == 0 {
			break
		}
		cur = &cur.EvolvesTo[0]
	}
	return names
}

