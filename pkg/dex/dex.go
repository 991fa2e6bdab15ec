package dex

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/jlrickert/dexview/pkg/log"
	"github.com/jlrickert/dexview/pkg/pokeapi"
	"golang.org/x/sync/errgroup"
)

// DefaultIndexLimit is how many list entries Init requests.
const DefaultIndexLimit = 2000

type Options struct {
	IndexLimit  int
	PageSize    int
	MaxTypes    int
	Concurrency int
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.IndexLimit <= 0 {
		o.IndexLimit = DefaultIndexLimit
	}
	if !ValidPageSize(o.PageSize) {
		o.PageSize = DefaultPageSize
	}
	if o.MaxTypes <= 0 {
		o.MaxTypes = DefaultMaxTypes
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	o.Logger = log.OrNop(o.Logger)
	return o
}

// State is a point-in-time copy of the controller state.
type State struct {
	Initialized bool        `json:"initialized"`
	Filter      FilterState `json:"filter"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	Count       int         `json:"count"`
	Total       int         `json:"total"`
	Cycle       uint64      `json:"cycle"`
	CycleState  string      `json:"cycle_state"`
}

// Query describes a complete filter and page request.
type Query struct {
	Filter   FilterState
	Page     int
	PageSize int

	// Revision orders the queries of a caller that may deliver them out of
	// order. A query older than the newest applied one is rejected with
	// ErrStaleQuery. Zero is never rejected.
	Revision uint64
}

// Dex is the National Dex controller. It owns the index, the filter and page
// state, and runs one pipeline cycle per trigger. A newer trigger cancels the
// cycle in flight so stale results are never rendered.
type Dex struct {
	src      Source
	store    *Store
	enricher *Enricher
	cycles   *Cycles
	r        Renderer
	log      *slog.Logger
	opts     Options

	initMu sync.Mutex

	mu          sync.Mutex
	initialized bool
	all         []IndexEntry
	filter      FilterState
	page        int
	pageSize    int
	lastCount   int
	revision    uint64
}

func New(src Source, r Renderer, opts Options) *Dex {
	opts = opts.withDefaults()
	if r == nil {
		r = NopRenderer{}
	}
	store := NewStore()
	return &Dex{
		src:      src,
		store:    store,
		enricher: NewEnricher(src, store, opts.Concurrency, opts.Logger),
		cycles:   NewCycles(),
		r:        r,
		log:      opts.Logger,
		opts:     opts,
		page:     1,
		pageSize: opts.PageSize,
	}
}

// Store exposes the session cache for read access.
func (d *Dex) Store() *Store { return d.store }

// MaxTypes is the configured type selection cap.
func (d *Dex) MaxTypes() int { return d.opts.MaxTypes }

// Init fetches the full index and runs the first cycle. A failed fetch
// leaves the Dex uninitialized so Init may be retried. Calling Init again
// after success is a no-op.
func (d *Dex) Init(ctx context.Context) error {
	d.initMu.Lock()
	defer d.initMu.Unlock()

	d.mu.Lock()
	done := d.initialized
	d.mu.Unlock()
	if done {
		return nil
	}

	d.r.SetLoading(true)
	page, err := d.src.List(ctx, d.opts.IndexLimit, 0)
	if err != nil {
		d.r.SetLoading(false)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.log.Error("national dex init failed", "error", err)
		d.r.SetError(MsgInitFailed)
		return fmt.Errorf("initialize national dex: %w", err)
	}

	all := make([]IndexEntry, 0, len(page.Results))
	for _, res := range page.Results {
		all = append(all, IndexEntry{Name: res.Name, ID: pokeapi.ParseIDFromURL(res.URL)})
	}

	d.mu.Lock()
	d.all = all
	d.initialized = true
	d.mu.Unlock()
	d.log.Info("national dex initialized", "entries", len(all))

	err = d.Refresh(ctx)
	if isCancellation(err) && ctx.Err() == nil {
		// superseded by a newer trigger
		return nil
	}
	return err
}

// Refresh reruns the pipeline with the current state.
func (d *Dex) Refresh(ctx context.Context) error {
	_, err := d.trigger(ctx, func() error { return nil })
	return err
}

func (d *Dex) SetText(ctx context.Context, text string) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		f.Text = text
		return nil
	})
}

// SetIDRange sets the inclusive id bounds. A nil bound is unbounded.
func (d *Dex) SetIDRange(ctx context.Context, lo, hi *int) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		f.MinID, f.MaxID = copyInt(lo), copyInt(hi)
		return nil
	})
}

// SetGeneration selects a generation by label or number; "" clears it.
func (d *Dex) SetGeneration(ctx context.Context, gen string) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		f.Generation = NormalizeGeneration(gen)
		return nil
	})
}

// ToggleType adds or removes a type. Exceeding the cap returns ErrTypeLimit
// without starting a cycle.
func (d *Dex) ToggleType(ctx context.Context, t string) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		return f.ToggleType(t, d.opts.MaxTypes)
	})
}

// SetTypes replaces the type selection.
func (d *Dex) SetTypes(ctx context.Context, types []string) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		next, err := d.checkTypes(types)
		if err != nil {
			return err
		}
		f.Types = next
		return nil
	})
}

// SetFilter replaces the whole filter state.
func (d *Dex) SetFilter(ctx context.Context, nf FilterState) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		types, err := d.checkTypes(nf.Types)
		if err != nil {
			return err
		}
		*f = nf.Clone()
		f.Types = types
		f.Generation = NormalizeGeneration(nf.Generation)
		return nil
	})
}

func (d *Dex) ClearFilters(ctx context.Context) error {
	return d.mutateFilter(ctx, func(f *FilterState) error {
		*f = FilterState{}
		return nil
	})
}

// SetPageSize changes the page size and returns to page 1.
func (d *Dex) SetPageSize(ctx context.Context, size int) error {
	if !ValidPageSize(size) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	_, err := d.trigger(ctx, func() error {
		d.pageSize = size
		d.page = 1
		return nil
	})
	return err
}

// NextPage advances one page, clamped to the last page of the most recent
// result.
func (d *Dex) NextPage(ctx context.Context) error {
	_, err := d.trigger(ctx, func() error {
		d.page = Clamp(d.page+1, d.lastCount, d.pageSize)
		return nil
	})
	return err
}

func (d *Dex) PrevPage(ctx context.Context) error {
	_, err := d.trigger(ctx, func() error {
		d.page = max(1, d.page-1)
		return nil
	})
	return err
}

func (d *Dex) GotoPage(ctx context.Context, page int) error {
	_, err := d.trigger(ctx, func() error {
		d.page = Clamp(page, d.lastCount, d.pageSize)
		return nil
	})
	return err
}

// Validate rejects unknown generations and types and page sizes outside
// PageSizes.
func (q Query) Validate() error {
	if g := q.Filter.Generation; g != "" && !slices.Contains(Generations, NormalizeGeneration(g)) {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownGeneration, g, strings.Join(Generations, ", "))
	}
	for _, t := range q.Filter.Types {
		if !slices.Contains(TypeNames, strings.ToLower(strings.TrimSpace(t))) {
			return fmt.Errorf("%w %q", ErrUnknownType, t)
		}
	}
	if q.PageSize != 0 && !ValidPageSize(q.PageSize) {
		return fmt.Errorf("%w: %d (want one of %v)", ErrInvalidPageSize, q.PageSize, PageSizes)
	}
	return nil
}

// Query applies q as a single trigger and returns the final view of the
// cycle. A zero page size keeps the current value; a zero page means page 1.
func (d *Dex) Query(ctx context.Context, q Query) (View, error) {
	if q.PageSize != 0 && !ValidPageSize(q.PageSize) {
		return View{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, q.PageSize)
	}
	return d.trigger(ctx, func() error { return d.applyQuery(q) })
}

// Preset sets the filter and page state without starting a cycle, so the
// first cycle run by Init already reflects q.
func (d *Dex) Preset(q Query) error {
	if q.PageSize != 0 && !ValidPageSize(q.PageSize) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, q.PageSize)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applyQuery(q)
}

// applyQuery must be called with d.mu held.
func (d *Dex) applyQuery(q Query) error {
	if q.Revision != 0 && q.Revision < d.revision {
		return fmt.Errorf("%w: revision %d, applied %d", ErrStaleQuery, q.Revision, d.revision)
	}
	types, err := d.checkTypes(q.Filter.Types)
	if err != nil {
		return err
	}
	d.revision = max(d.revision, q.Revision)
	f := q.Filter.Clone()
	f.Types = types
	f.Generation = NormalizeGeneration(f.Generation)
	d.filter = f
	if q.PageSize != 0 {
		d.pageSize = q.PageSize
	}
	d.page = max(1, q.Page)
	return nil
}

// Snapshot returns the current state.
func (d *Dex) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := State{
		Initialized: d.initialized,
		Filter:      d.filter.Clone(),
		Page:        d.page,
		PageSize:    d.pageSize,
		Count:       d.lastCount,
		Total:       len(d.all),
		CycleState:  Idle.String(),
	}
	if cy := d.cycles.Current(); cy != nil {
		st.Cycle = cy.Seq()
		st.CycleState = cy.State().String()
	}
	return st
}

// Entries returns a copy of the full index.
func (d *Dex) Entries() []IndexEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.all)
}

// Close cancels the cycle in flight.
func (d *Dex) Close() {
	d.cycles.Close()
}

func (d *Dex) checkTypes(types []string) ([]string, error) {
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	if len(out) > d.opts.MaxTypes {
		return nil, fmt.Errorf("%w: at most %d", ErrTypeLimit, d.opts.MaxTypes)
	}
	return out, nil
}

// mutateFilter applies fn to a copy of the filter and resets to page 1.
func (d *Dex) mutateFilter(ctx context.Context, fn func(*FilterState) error) error {
	_, err := d.trigger(ctx, func() error {
		f := d.filter.Clone()
		if err := fn(&f); err != nil {
			return err
		}
		d.filter = f
		d.page = 1
		return nil
	})
	return err
}

type snapshot struct {
	all      []IndexEntry
	filter   FilterState
	page     int
	pageSize int
}

// trigger mutates state and starts a cycle under d.mu, then runs the cycle's
// fetch phases without it.
func (d *Dex) trigger(ctx context.Context, mutate func() error) (View, error) {
	d.mu.Lock()
	if !d.initialized {
		d.mu.Unlock()
		return View{}, ErrNotInitialized
	}
	if err := mutate(); err != nil {
		d.mu.Unlock()
		return View{}, err
	}
	cy := d.cycles.Begin(ctx)
	snap := snapshot{
		all:      d.all,
		filter:   d.filter.Clone(),
		page:     d.page,
		pageSize: d.pageSize,
	}
	d.mu.Unlock()

	d.log.Debug("cycle begin", "cycle", cy.Seq(), "filter", snap.filter, "page", snap.page, "page_size", snap.pageSize)
	return d.run(cy, snap)
}

func (d *Dex) run(cy *Cycle, snap snapshot) (View, error) {
	ctx := WithGate(cy.Context(), cy.Commit)
	r := Guard(d.r, cy)
	r.SetLoading(true)

	view, err := d.pipeline(ctx, cy, r, snap)
	if err != nil {
		if isCancellation(err) {
			cy.Commit(func() { d.r.SetLoading(false) })
			cy.Cancel()
			d.log.Debug("cycle cancelled", "cycle", cy.Seq())
			return view, err
		}
		r.SetError(MsgLoadFailed)
		r.SetLoading(false)
		if cy.Fail(err) {
			d.log.Error("national dex cycle failed", "cycle", cy.Seq(), "error", err)
		}
		return view, fmt.Errorf("load national dex: %w", err)
	}

	r.SetLoading(false)
	if !cy.Complete() {
		d.log.Debug("cycle superseded", "cycle", cy.Seq())
		return view, context.Canceled
	}
	d.log.Debug("cycle completed", "cycle", cy.Seq(), "count", view.Count, "page", view.Page)
	return view, nil
}

func (d *Dex) pipeline(ctx context.Context, cy *Cycle, r Renderer, snap snapshot) (View, error) {
	f := snap.filter
	candidates := Candidates(snap.all, f)

	if f.NeedsGeneration() {
		if _, err := d.enricher.EnsureGenerations(ctx, candidates); err != nil {
			return View{}, err
		}
	}
	if f.NeedsDetails() {
		if _, err := d.enricher.EnsureDetails(ctx, candidates); err != nil {
			return View{}, err
		}
	}

	filtered := Apply(candidates, f, d.store)
	page := Clamp(snap.page, len(filtered), snap.pageSize)

	d.mu.Lock()
	if cy.Current() {
		d.page = page
		d.lastCount = len(filtered)
	}
	d.mu.Unlock()

	r.Render(buildView(filtered, f, page, snap.pageSize, PassCached, cy.Seq(), d.store))

	visible := Slice(filtered, page, snap.pageSize)
	var g errgroup.Group
	g.Go(func() error {
		_, err := d.enricher.EnsureDetails(ctx, visible)
		return err
	})
	g.Go(func() error {
		_, err := d.enricher.EnsureGenerations(ctx, visible)
		return err
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	view := buildView(filtered, f, page, snap.pageSize, PassEnriched, cy.Seq(), d.store)
	r.Render(view)
	return view, nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
