package dex

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/jlrickert/dexview/pkg/log"
	"github.com/jlrickert/dexview/pkg/pokeapi"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency bounds parallel fetches within one enrichment batch.
const DefaultConcurrency = 16

// maxJoinAttempts bounds how often a caller retries a shared fetch that was
// cancelled by its original caller.
const maxJoinAttempts = 2

// Source is the subset of the remote API the National Dex needs.
type Source interface {
	List(ctx context.Context, limit, offset int) (pokeapi.ListPage, error)
	Pokemon(ctx context.Context, nameOrID string) (pokeapi.Pokemon, error)
	Species(ctx context.Context, nameOrID string) (pokeapi.Species, error)
	SpeciesByURL(ctx context.Context, u string) (pokeapi.Species, error)
}

// EnrichReport summarizes one enrichment batch.
type EnrichReport struct {
	Requested int
	Fetched   int
	Failed    int
}

// Enricher fetches missing detail records and generation tags into a Store.
// Each key is fetched at most once at a time; keys already in the Store are
// never fetched again.
type Enricher struct {
	src   Source
	store *Store
	log   *slog.Logger
	limit int

	details     singleflight.Group
	generations singleflight.Group
}

func NewEnricher(src Source, store *Store, concurrency int, lg *slog.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{src: src, store: store, log: log.OrNop(lg), limit: concurrency}
}

// EnsureDetails fetches detail records for the entries not yet cached.
// Individual failures are counted and skipped. The returned error is non-nil
// only when ctx ended before the batch finished.
func (e *Enricher) EnsureDetails(ctx context.Context, entries []IndexEntry) (EnrichReport, error) {
	missing := e.missing(entries, func(name string) bool {
		_, ok := e.store.Detail(name)
		return ok
	})
	return e.run(ctx, "details", missing, func(ctx context.Context, en IndexEntry) (bool, error) {
		rec, err := e.fetchDetail(ctx, en)
		if err != nil {
			return false, err
		}
		return gateFrom(ctx)(func() { e.store.PutDetail(en.Name, rec) }), nil
	})
}

// EnsureGenerations fetches generation tags for the entries not yet cached.
func (e *Enricher) EnsureGenerations(ctx context.Context, entries []IndexEntry) (EnrichReport, error) {
	missing := e.missing(entries, func(name string) bool {
		_, ok := e.store.Generation(name)
		return ok
	})
	return e.run(ctx, "generations", missing, func(ctx context.Context, en IndexEntry) (bool, error) {
		gen, err := e.fetchGeneration(ctx, en)
		if err != nil {
			return false, err
		}
		return gateFrom(ctx)(func() { e.store.PutGeneration(en.Name, gen) }), nil
	})
}

func (e *Enricher) missing(entries []IndexEntry, cached func(string) bool) []IndexEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]IndexEntry, 0, len(entries))
	for _, en := range entries {
		if _, dup := seen[en.Name]; dup {
			continue
		}
		seen[en.Name] = struct{}{}
		if !cached(en.Name) {
			out = append(out, en)
		}
	}
	return out
}

func (e *Enricher) run(
	ctx context.Context,
	kind string,
	missing []IndexEntry,
	fetch func(context.Context, IndexEntry) (bool, error),
) (EnrichReport, error) {
	report := EnrichReport{Requested: len(missing)}
	if len(missing) == 0 {
		return report, ctx.Err()
	}

	var fetched, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.limit)
	for _, en := range missing {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			stored, err := fetch(ctx, en)
			switch {
			case err != nil && ctx.Err() != nil:
			case err != nil:
				failed.Add(1)
				e.log.Debug("enrichment fetch failed", "kind", kind, "name", en.Name, "error", err)
			case stored:
				fetched.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Fetched = int(fetched.Load())
	report.Failed = int(failed.Load())
	e.log.Debug("enrichment batch",
		"kind", kind,
		"requested", report.Requested,
		"fetched", report.Fetched,
		"failed", report.Failed,
	)
	return report, ctx.Err()
}

func (e *Enricher) fetchDetail(ctx context.Context, en IndexEntry) (DetailRecord, error) {
	v, err := shared(ctx, &e.details, en.Name, func() (any, error) {
		p, err := e.src.Pokemon(ctx, en.Name)
		if err != nil {
			return nil, err
		}
		return DetailRecord{
			ID:         p.ID,
			Types:      p.TypeNames(),
			Artwork:    p.Artwork(),
			SpeciesURL: p.Species.URL,
		}, nil
	})
	if err != nil {
		return DetailRecord{}, err
	}
	return v.(DetailRecord), nil
}

func (e *Enricher) fetchGeneration(ctx context.Context, en IndexEntry) (string, error) {
	v, err := shared(ctx, &e.generations, en.Name, func() (any, error) {
		sp, err := e.species(ctx, en)
		if err != nil {
			return nil, err
		}
		label := GenerationLabel(sp.Generation.Name)
		if label == "" {
			return nil, fmt.Errorf("species of %s has no generation", en.Name)
		}
		return label, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// species resolves the species of en. Base entries share their id with the
// species; forms and entries without an id go through the detail record's
// species link.
func (e *Enricher) species(ctx context.Context, en IndexEntry) (pokeapi.Species, error) {
	if en.ID > 0 && en.ID < FormIDBase {
		return e.src.Species(ctx, strconv.Itoa(en.ID))
	}
	rec, ok := e.store.Detail(en.Name)
	if !ok || rec.SpeciesURL == "" {
		var err error
		if rec, err = e.fetchDetail(ctx, en); err != nil {
			return pokeapi.Species{}, err
		}
	}
	if rec.SpeciesURL == "" {
		return pokeapi.Species{}, fmt.Errorf("pokemon %s has no species link", en.Name)
	}
	return e.src.SpeciesByURL(ctx, rec.SpeciesURL)
}

// shared runs fn once per key across concurrent callers. A caller that joined
// a fetch cancelled by another caller retries with its own context.
func shared(ctx context.Context, g *singleflight.Group, key string, fn func() (any, error)) (any, error) {
	var (
		v   any
		err error
	)
	for range maxJoinAttempts {
		ch := g.DoChan(key, fn)
		select {
		case res := <-ch:
			v, err = res.Val, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if err == nil || !isCancellation(err) || ctx.Err() != nil {
			return v, err
		}
	}
	return v, err
}
