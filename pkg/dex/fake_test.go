package dex

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/jlrickert/dexview/pkg/pokeapi"
)

type fakeMon struct {
	ID    int
	Name  string
	Types []string
	Gen   string
	// Species names the base entry of an alternate form.
	Species string
}

// fakeSource is an in-memory Source with call counters and blocking hooks.
type fakeSource struct {
	mu      sync.Mutex
	mons    []fakeMon
	extra   []pokeapi.NamedResource
	listErr error
	calls   map[string]int
	gates   map[string]chan struct{}
	fail    map[string]error
}

func newFakeSource(mons ...fakeMon) *fakeSource {
	return &fakeSource{
		mons:  mons,
		calls: map[string]int{},
		gates: map[string]chan struct{}{},
		fail:  map[string]error{},
	}
}

func kantoSource() *fakeSource {
	return newFakeSource(
		fakeMon{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, Gen: "generation-i"},
		fakeMon{ID: 2, Name: "ivysaur", Types: []string{"grass", "poison"}, Gen: "generation-i"},
		fakeMon{ID: 3, Name: "venusaur", Types: []string{"grass", "poison"}, Gen: "generation-i"},
		fakeMon{ID: 4, Name: "charmander", Types: []string{"fire"}, Gen: "generation-i"},
		fakeMon{ID: 152, Name: "chikorita", Types: []string{"grass"}, Gen: "generation-ii"},
	)
}

func (f *fakeSource) addUnlisted(name, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extra = append(f.extra, pokeapi.NamedResource{Name: name, URL: url})
}

// block makes calls for key ("pokemon:name" or "species:key") wait until
// release is called or the caller's context ends.
func (f *fakeSource) block(key string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[key] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *fakeSource) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeSource) enter(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls[key]++
	gate := f.gates[key]
	err := f.fail[key]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeSource) find(key string) (fakeMon, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := strconv.Atoi(key)
	for _, m := range f.mons {
		if m.Name == key || (id > 0 && m.ID == id) {
			return m, true
		}
	}
	return fakeMon{}, false
}

func (f *fakeSource) List(ctx context.Context, limit, offset int) (pokeapi.ListPage, error) {
	if err := f.enter(ctx, "list"); err != nil {
		return pokeapi.ListPage{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return pokeapi.ListPage{}, f.listErr
	}
	var out []pokeapi.NamedResource
	for _, m := range f.mons {
		out = append(out, pokeapi.NamedResource{
			Name: m.Name,
			URL:  fmt.Sprintf("https://pokeapi.co/api/v2/pokemon/%d/", m.ID),
		})
	}
	out = append(out, f.extra...)
	end := min(offset+limit, len(out))
	return pokeapi.ListPage{Count: len(out), Results: out[offset:end]}, nil
}

func (f *fakeSource) Pokemon(ctx context.Context, nameOrID string) (pokeapi.Pokemon, error) {
	if err := f.enter(ctx, "pokemon:"+nameOrID); err != nil {
		return pokeapi.Pokemon{}, err
	}
	m, ok := f.find(nameOrID)
	if !ok {
		return pokeapi.Pokemon{}, fmt.Errorf("pokemon %s: %w", nameOrID, pokeapi.ErrNotFound)
	}
	p := pokeapi.Pokemon{ID: m.ID, Name: m.Name}
	p.Species = pokeapi.NamedResource{Name: m.Name, URL: f.speciesURL(m)}
	for i, t := range m.Types {
		p.Types = append(p.Types, pokeapi.PokemonType{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}})
	}
	p.Sprites.FrontDefault = fmt.Sprintf("https://img.example/%d.png", m.ID)
	return p, nil
}

// Species only resolves base entries, like the real API: forms have no
// species under their own id or name.
func (f *fakeSource) Species(ctx context.Context, nameOrID string) (pokeapi.Species, error) {
	if err := f.enter(ctx, "species:"+nameOrID); err != nil {
		return pokeapi.Species{}, err
	}
	return f.species(nameOrID)
}

func (f *fakeSource) SpeciesByURL(ctx context.Context, u string) (pokeapi.Species, error) {
	if err := f.enter(ctx, "species-url:"+u); err != nil {
		return pokeapi.Species{}, err
	}
	return f.species(path.Base(strings.TrimSuffix(u, "/")))
}

func (f *fakeSource) species(key string) (pokeapi.Species, error) {
	m, ok := f.find(key)
	if !ok || m.ID >= FormIDBase || m.Species != "" {
		return pokeapi.Species{}, fmt.Errorf("species %s: %w", key, pokeapi.ErrNotFound)
	}
	return pokeapi.Species{ID: m.ID, Name: m.Name, Generation: pokeapi.NamedResource{Name: m.Gen}}, nil
}

func (f *fakeSource) speciesURL(m fakeMon) string {
	if m.Species != "" {
		if base, ok := f.find(m.Species); ok {
			m = base
		}
	}
	return fmt.Sprintf("https://pokeapi.co/api/v2/pokemon-species/%d/", m.ID)
}

var _ Source = (*fakeSource)(nil)

// mapLookup is a Lookup backed by plain maps.
type mapLookup struct {
	details map[string]DetailRecord
	gens    map[string]string
}

func (m mapLookup) Detail(name string) (DetailRecord, bool) {
	d, ok := m.details[name]
	return d, ok
}

func (m mapLookup) Generation(name string) (string, bool) {
	g, ok := m.gens[name]
	return g, ok
}

func intp(v int) *int { return &v }

func names(entries []IndexEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func rowNames(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}
