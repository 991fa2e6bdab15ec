package dex

import (
	"slices"
	"sync"
)

// Pass identifies which render of a cycle a View belongs to.
type Pass int

const (
	// PassCached renders from whatever is already in the Store.
	PassCached Pass = 1
	// PassEnriched renders after the page's details and generations were
	// fetched.
	PassEnriched Pass = 2
)

// Row is one displayed entry. Types, Artwork and Generation are blank until
// the corresponding data is cached.
type Row struct {
	Name       string   `json:"name"`
	ID         int      `json:"id"`
	IDLabel    string   `json:"id_label"`
	Artwork    string   `json:"artwork,omitempty"`
	Types      []string `json:"types,omitempty"`
	Generation string   `json:"generation,omitempty"`
}

// View is everything a renderer needs to draw one page.
type View struct {
	Rows       []Row       `json:"rows"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Count      int         `json:"count"`
	PageSize   int         `json:"page_size"`
	Window     []int       `json:"window"`
	Pass       Pass        `json:"pass"`
	Cycle      uint64      `json:"cycle"`
	Filter     FilterState `json:"filter"`
}

// Renderer receives the output of the pipeline. Calls are made while the
// pipeline holds its locks, so implementations must not call back into the
// Dex.
type Renderer interface {
	Render(v View)
	SetLoading(on bool)
	SetError(msg string)
}

// BuildRows maps a page of entries to rows using cached data only.
func BuildRows(page []IndexEntry, lk Lookup) []Row {
	rows := make([]Row, 0, len(page))
	for _, e := range page {
		row := Row{Name: e.Name, ID: e.ID, IDLabel: IDLabel(e.ID)}
		if d, ok := lk.Detail(e.Name); ok {
			if row.ID == 0 && d.ID > 0 {
				row.ID = d.ID
				row.IDLabel = IDLabel(d.ID)
			}
			row.Types = slices.Clone(d.Types)
			row.Artwork = d.Artwork
		}
		if g, ok := lk.Generation(e.Name); ok && g != "" {
			row.Generation = "Gen " + g
		}
		rows = append(rows, row)
	}
	return rows
}

func buildView(filtered []IndexEntry, f FilterState, page, size int, pass Pass, seq uint64, lk Lookup) View {
	page = Clamp(page, len(filtered), size)
	total := TotalPages(len(filtered), size)
	return View{
		Rows:       BuildRows(Slice(filtered, page, size), lk),
		Page:       page,
		TotalPages: total,
		Count:      len(filtered),
		PageSize:   size,
		Window:     Window(page, total),
		Pass:       pass,
		Cycle:      seq,
		Filter:     f.Clone(),
	}
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Render(View)     {}
func (NopRenderer) SetLoading(bool) {}
func (NopRenderer) SetError(string) {}

// CaptureRenderer records every call. It is safe for concurrent use.
type CaptureRenderer struct {
	mu      sync.Mutex
	views   []View
	loading []bool
	errors  []string
}

func (c *CaptureRenderer) Render(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = append(c.views, v)
}

func (c *CaptureRenderer) SetLoading(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = append(c.loading, on)
}

func (c *CaptureRenderer) SetError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
}

// Views returns a copy of the rendered views in order.
func (c *CaptureRenderer) Views() []View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.views)
}

// Last returns the most recent view.
func (c *CaptureRenderer) Last() (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.views) == 0 {
		return View{}, false
	}
	return c.views[len(c.views)-1], true
}

// Loading returns the most recent loading state.
func (c *CaptureRenderer) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.loading) > 0 && c.loading[len(c.loading)-1]
}

func (c *CaptureRenderer) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.errors)
}
