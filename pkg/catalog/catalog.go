package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/jlrickert/dexview/pkg/log"
	"github.com/jlrickert/dexview/pkg/pokeapi"
)

// DefaultRandomLimit covers the base entries; special forms start at 10001.
const DefaultRandomLimit = 1025

// Source is the subset of the remote API the catalog needs.
type Source interface {
	List(ctx context.Context, limit, offset int) (pokeapi.ListPage, error)
	Pokemon(ctx context.Context, nameOrID string) (pokeapi.Pokemon, error)
	SpeciesByURL(ctx context.Context, u string) (pokeapi.Species, error)
	EvolutionChain(ctx context.Context, u string) (pokeapi.EvolutionChain, error)
}

type Options struct {
	RandomLimit int
	// Rand picks random entries. Defaults to a randomly seeded source.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Catalog serves search, random picks and profiles.
type Catalog struct {
	src         Source
	log         *slog.Logger
	randomLimit int

	randMu sync.Mutex
	rng    *rand.Rand

	baseMu sync.Mutex
	base   []pokeapi.NamedResource

	profileMu     sync.Mutex
	profileSeq    uint64
	profileCancel context.CancelFunc
}

func New(src Source, opts Options) *Catalog {
	if opts.RandomLimit <= 0 {
		opts.RandomLimit = DefaultRandomLimit
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Catalog{
		src:         src,
		log:         log.OrNop(opts.Logger),
		randomLimit: opts.RandomLimit,
		rng:         rng,
	}
}

// Search looks up one entry by name or id. The query is trimmed and
// lowercased.
func (c *Catalog) Search(ctx context.Context, query string) (Card, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Card{}, ErrEmptyQuery
	}
	p, err := c.src.Pokemon(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return Card{}, ctx.Err()
		}
		c.log.Debug("search failed", "query", q, "error", err)
		return Card{}, userError(MsgNotFound, err)
	}
	return NewCard(p), nil
}

// Random picks one of the base entries uniformly. The base list is fetched
// once and reused; a failed fetch is retried on the next call.
func (c *Catalog) Random(ctx context.Context) (Card, error) {
	base, err := c.baseList(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Card{}, ctx.Err()
		}
		return Card{}, userError(MsgRandomFailed, err)
	}
	if len(base) == 0 {
		return Card{}, userError(MsgRandomFailed, errors.New("empty base list"))
	}

	c.randMu.Lock()
	pick := base[c.rng.IntN(len(base))]
	c.randMu.Unlock()

	p, err := c.src.Pokemon(ctx, pick.Name)
	if err != nil {
		if ctx.Err() != nil {
			return Card{}, ctx.Err()
		}
		return Card{}, userError(MsgRandomFailed, err)
	}
	c.log.Debug("random pick", "name", pick.Name)
	return NewCard(p), nil
}

func (c *Catalog) baseList(ctx context.Context) ([]pokeapi.NamedResource, error) {
	c.baseMu.Lock()
	defer c.baseMu.Unlock()
	if c.base != nil {
		return c.base, nil
	}
	page, err := c.src.List(ctx, c.randomLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch base list: %w", err)
	}
	c.base = page.Results
	return c.base, nil
}

// Profile loads the pokemon, its species and its evolution chain. Starting a
// profile load cancels the one still in flight; the cancelled call returns a
// context error.
func (c *Catalog) Profile(ctx context.Context, nameOrID string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	if key == "" {
		return Profile{}, ErrEmptyQuery
	}

	pctx, seq := c.beginProfile(ctx)
	defer c.endProfile(seq)

	prof, err := c.loadProfile(pctx, key)
	if err != nil {
		if pctx.Err() != nil {
			return Profile{}, pctx.Err()
		}
		c.log.Debug("profile failed", "key", key, "error", err)
		return Profile{}, userError(MsgProfileFailed, err)
	}
	return prof, nil
}

// CloseProfile cancels the profile load in flight, if any.
func (c *Catalog) CloseProfile() {
	c.profileMu.Lock()
	defer c.profileMu.Unlock()
	if c.profileCancel != nil {
		c.profileCancel()
		c.profileCancel = nil
	}
}

func (c *Catalog) beginProfile(ctx context.Context) (context.Context, uint64) {
	c.profileMu.Lock()
	defer c.profileMu.Unlock()
	if c.profileCancel != nil {
		c.profileCancel()
	}
	pctx, cancel := context.WithCancel(ctx)
	c.profileSeq++
	c.profileCancel = cancel
	return pctx, c.profileSeq
}

func (c *Catalog) endProfile(seq uint64) {
	c.profileMu.Lock()
	defer c.profileMu.Unlock()
	if c.profileSeq == seq && c.profileCancel != nil {
		c.profileCancel()
		c.profileCancel = nil
	}
}

func (c *Catalog) loadProfile(ctx context.Context, key string) (Profile, error) {
	p, err := c.src.Pokemon(ctx, key)
	if err != nil {
		return Profile{}, err
	}
	if p.Species.URL == "" {
		return Profile{}, fmt.Errorf("pokemon %s has no species", key)
	}
	sp, err := c.src.SpeciesByURL(ctx, p.Species.URL)
	if err != nil {
		return Profile{}, err
	}
	var chain pokeapi.EvolutionChain
	if sp.EvolutionChain.URL != "" {
		if chain, err = c.src.EvolutionChain(ctx, sp.EvolutionChain.URL); err != nil {
			return Profile{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	return NewProfile(p, sp, chain), nil
}

