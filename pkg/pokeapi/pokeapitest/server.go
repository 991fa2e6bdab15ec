// Package pokeapitest provides an in-process fake of the PokeAPI REST API for
// tests.
package pokeapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jlrickert/dexview/pkg/pokeapi"
)

// Fixture describes one creature served by the fake.
type Fixture struct {
	ID         int
	Name       string
	Types      []string
	Generation string // e.g. "generation-i"
	Flavor     string
	Stats      map[string]int
	Abilities  []string
	Height     int
	Weight     int
	BaseExp    int
	ChainID    int
}

// Server is a fake PokeAPI. All fixtures are served under /api/v2.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	fixtures map[string]Fixture
	order    []string
	extra    []pokeapi.NamedResource
	chains   map[int][]string
	hits     map[string]int
	status   map[string]int
	gate     map[string]chan struct{}
}

// NewServer starts a fake serving fixtures. Callers must Close it.
func NewServer(fixtures ...Fixture) *Server {
	s := &Server{
		fixtures: map[string]Fixture{},
		chains:   map[int][]string{},
		hits:     map[string]int{},
		status:   map[string]int{},
		gate:     map[string]chan struct{}{},
	}
	for _, f := range fixtures {
		s.Add(f)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// BaseURL is the API root to hand to pokeapi.NewClient.
func (s *Server) BaseURL() string { return s.URL + "/api/v2" }

// Add registers a fixture. It appears in list results in insertion order.
func (s *Server) Add(f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fixtures[f.Name]; !ok {
		s.order = append(s.order, f.Name)
	}
	s.fixtures[f.Name] = f
}

// AddListEntry appends a raw list entry with no backing resources, such as an
// entry whose detail request 404s.
func (s *Server) AddListEntry(name, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = append(s.extra, pokeapi.NamedResource{Name: name, URL: url})
}

// SetChain registers an evolution chain as a linear list of species names.
func (s *Server) SetChain(id int, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains[id] = names
}

// SetStatus makes every request to path answer with code.
func (s *Server) SetStatus(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = code
}

// Block makes requests to path wait until the returned release func is called
// or the request is cancelled.
func (s *Server) Block(path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gate[path] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns how many requests were served across all paths with the
// given prefix.
func (s *Server) TotalHits(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for p, c := range s.hits {
		if strings.HasPrefix(p, prefix) {
			n += c
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	s.mu.Lock()
	s.hits[path]++
	code, failing := s.status[path]
	gate := s.gate[path]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if failing {
		http.Error(w, http.StatusText(code), code)
		return
	}

	rest, ok := strings.CutPrefix(path, "/api/v2/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	kind, key, _ := strings.Cut(rest, "/")

	var body any
	switch {
	case kind == "pokemon" && key == "":
		body = s.list(r)
	case kind == "pokemon":
		body, ok = s.pokemon(key)
	case kind == "pokemon-species":
		body, ok = s.species(key)
	case kind == "evolution-chain":
		body, ok = s.chain(key)
	default:
		ok = false
	}
	if !ok || body == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) list(r *http.Request) pokeapi.ListPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]pokeapi.NamedResource, 0, len(s.order)+len(s.extra))
	for _, name := range s.order {
		f := s.fixtures[name]
		all = append(all, pokeapi.NamedResource{
			Name: f.Name,
			URL:  fmt.Sprintf("%s/api/v2/pokemon/%d/", s.URL, f.ID),
		})
	}
	all = append(all, s.extra...)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return pokeapi.ListPage{Count: len(all), Results: all[offset:end]}
}

func (s *Server) lookup(key string) (Fixture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fixtures[key]; ok {
		return f, true
	}
	id, err := strconv.Atoi(key)
	if err != nil {
		return Fixture{}, false
	}
	for _, f := range s.fixtures {
		if f.ID == id {
			return f, true
		}
	}
	return Fixture{}, false
}

func (s *Server) pokemon(key string) (any, bool) {
	f, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	p := pokeapi.Pokemon{
		ID:     f.ID,
		Name:   f.Name,
		Height: f.Height,
		Weight: f.Weight,
		Species: pokeapi.NamedResource{
			Name: f.Name,
			URL:  fmt.Sprintf("%s/api/v2/pokemon-species/%d/", s.URL, f.ID),
		},
	}
	if f.BaseExp > 0 {
		exp := f.BaseExp
		p.BaseExperience = &exp
	}
	for i, t := range f.Types {
		p.Types = append(p.Types, pokeapi.PokemonType{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}})
	}
	for i, a := range f.Abilities {
		p.Abilities = append(p.Abilities, pokeapi.PokemonAbility{Slot: i + 1, Ability: pokeapi.NamedResource{Name: a}})
	}
	statNames := make([]string, 0, len(f.Stats))
	for name := range f.Stats {
		statNames = append(statNames, name)
	}
	sort.Slice(statNames, func(i, j int) bool { return statOrder(statNames[i]) < statOrder(statNames[j]) })
	for _, name := range statNames {
		p.Stats = append(p.Stats, pokeapi.PokemonStat{BaseStat: f.Stats[name], Stat: pokeapi.NamedResource{Name: name}})
	}
	p.Sprites.FrontDefault = fmt.Sprintf("https://img.example/sprites/%d.png", f.ID)
	p.Sprites.Other.OfficialArtwork.FrontDefault = fmt.Sprintf("https://img.example/artwork/%d.png", f.ID)
	return p, true
}

func (s *Server) species(key string) (any, bool) {
	f, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	sp := pokeapi.Species{
		ID:          f.ID,
		Name:        f.Name,
		Generation:  pokeapi.NamedResource{Name: f.Generation},
		CaptureRate: 45,
		GrowthRate:  pokeapi.NamedResource{Name: "medium-slow"},
	}
	if f.ChainID > 0 {
		sp.EvolutionChain.URL = fmt.Sprintf("%s/api/v2/evolution-chain/%d/", s.URL, f.ChainID)
	}
	if f.Flavor != "" {
		sp.FlavorTextEntries = []pokeapi.FlavorText{
			{FlavorText: "Texte en français.", Language: pokeapi.NamedResource{Name: "fr"}},
			{FlavorText: f.Flavor, Language: pokeapi.NamedResource{Name: "en"}},
		}
	}
	return sp, true
}

func (s *Server) chain(key string) (any, bool) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	names, ok := s.chains[id]
	s.mu.Unlock()
	if !ok || len(names) == 0 {
		return nil, false
	}
	var build func(i int) pokeapi.ChainLink
	build = func(i int) pokeapi.ChainLink {
		link := pokeapi.ChainLink{Species: pokeapi.NamedResource{Name: names[i]}, EvolvesTo: []pokeapi.ChainLink{}}
		if i+1 < len(names) {
			link.EvolvesTo = append(link.EvolvesTo, build(i+1))
		}
		return link
	}
	return pokeapi.EvolutionChain{ID: id, Chain: build(0)}, true
}

func statOrder(name string) int {
	switch name {
	case "hp":
		return 0
	case "attack":
		return 1
	case "defense":
		return 2
	case "special-attack":
		return 3
	case "special-defense":
		return 4
	case "speed":
		return 5
	}
	return 6
}
