package pokeapi

import (
	"regexp"
	"strconv"
	"strings"
)

// NamedResource is the {name, url} pair PokeAPI uses for every reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage is one page of the paginated resource list.
type ListPage struct {
	Count    int             `json:"count"`
	Next     string          `json:"next"`
	Previous string          `json:"previous"`
	Results  []NamedResource `json:"results"`
}

type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type PokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

type Sprites struct {
	FrontDefault string `json:"front_default"`
	Other        struct {
		OfficialArtwork struct {
			FrontDefault string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

// Pokemon is the subset of /pokemon/{id or name} this tool reads. Height is
// in decimetres and Weight in hectograms.
type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	BaseExperience *int             `json:"base_experience"`
	Types          []PokemonType    `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []PokemonStat    `json:"stats"`
	Sprites        Sprites          `json:"sprites"`
	Species        NamedResource    `json:"species"`
}

// TypeNames returns the type names in slot order.
func (p Pokemon) TypeNames() []string {
	out := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		out = append(out, t.Type.Name)
	}
	return out
}

// Artwork prefers the official artwork and falls back to the default front
// sprite. Returns "" when neither is present.
func (p Pokemon) Artwork() string {
	if a := p.Sprites.Other.OfficialArtwork.FrontDefault; a != "" {
		return a
	}
	return p.Sprites.FrontDefault
}

type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

type APIResource struct {
	URL string `json:"url"`
}

// Species is the subset of /pokemon-species/{id or name} this tool reads.
type Species struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	Generation        NamedResource `json:"generation"`
	EvolutionChain    APIResource   `json:"evolution_chain"`
	FlavorTextEntries []FlavorText  `json:"flavor_text_entries"`
	CaptureRate       int           `json:"capture_rate"`
	GrowthRate        NamedResource `json:"growth_rate"`
}

// ChainLink is one node of an evolution chain.
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
}

type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

var pokemonIDPattern = regexp.MustCompile(`/pokemon/(\d+)/?$`)

// ParseIDFromURL extracts the numeric id from a /pokemon/{id}/ resource URL.
// It returns 0 when the URL does not match.
func ParseIDFromURL(u string) int {
	m := pokemonIDPattern.FindStringSubmatch(strings.TrimSpace(u))
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}
