package dex

import (
	"slices"
	"strconv"
	"strings"
)

// DefaultMaxTypes is the type selection cap used when none is configured.
const DefaultMaxTypes = 2

// FilterState is the set of active filters. All predicates are ANDed.
type FilterState struct {
	Text       string   `json:"text,omitempty"`
	MinID      *int     `json:"min_id,omitempty"`
	MaxID      *int     `json:"max_id,omitempty"`
	Generation string   `json:"generation,omitempty"`
	Types      []string `json:"types,omitempty"`
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := f
	if f.MinID != nil {
		v := *f.MinID
		out.MinID = &v
	}
	if f.MaxID != nil {
		v := *f.MaxID
		out.MaxID = &v
	}
	out.Types = slices.Clone(f.Types)
	return out
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool {
	return strings.TrimSpace(f.Text) == "" && f.MinID == nil && f.MaxID == nil &&
		f.Generation == "" && len(f.Types) == 0
}

// NeedsGeneration reports whether evaluating f requires generation tags.
func (f FilterState) NeedsGeneration() bool { return f.Generation != "" }

// NeedsDetails reports whether evaluating f requires detail records.
func (f FilterState) NeedsDetails() bool { return len(f.Types) > 0 }

// ToggleType removes t when selected, otherwise adds it. Adding beyond
// maxTypes fails with ErrTypeLimit and leaves f unchanged.
func (f *FilterState) ToggleType(t string, maxTypes int) error {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return nil
	}
	if i := slices.Index(f.Types, t); i >= 0 {
		f.Types = slices.Delete(slices.Clone(f.Types), i, i+1)
		return nil
	}
	if maxTypes <= 0 {
		maxTypes = DefaultMaxTypes
	}
	if len(f.Types) >= maxTypes {
		return ErrTypeLimit
	}
	f.Types = append(slices.Clone(f.Types), t)
	return nil
}

// normalized lowercases text, types and the generation label.
func (f FilterState) normalized() FilterState {
	out := f.Clone()
	out.Text = strings.ToLower(strings.TrimSpace(f.Text))
	out.Generation = NormalizeGeneration(f.Generation)
	for i, t := range out.Types {
		out.Types[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}

func matchText(e IndexEntry, text string) bool {
	if text == "" {
		return true
	}
	if isDigits(text) {
		n, err := strconv.Atoi(text)
		return err == nil && e.ID != 0 && e.ID == n
	}
	return strings.Contains(strings.ToLower(e.Name), text)
}

func matchRange(e IndexEntry, lo, hi *int) bool {
	if lo == nil && hi == nil {
		return true
	}
	if e.ID == 0 {
		return false
	}
	if lo != nil && e.ID < *lo {
		return false
	}
	if hi != nil && e.ID > *hi {
		return false
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CheapMatch evaluates the predicates that need no fetched data: text and id
// range.
func CheapMatch(e IndexEntry, f FilterState) bool {
	f = f.normalized()
	return matchText(e, f.Text) && matchRange(e, f.MinID, f.MaxID)
}

// Matches evaluates every predicate. Entries whose generation or detail is
// not in lk fail the corresponding predicate.
func Matches(e IndexEntry, f FilterState, lk Lookup) bool {
	return matches(e, f.normalized(), lk)
}

func matches(e IndexEntry, f FilterState, lk Lookup) bool {
	if !matchText(e, f.Text) || !matchRange(e, f.MinID, f.MaxID) {
		return false
	}
	if f.Generation != "" {
		g, ok := lk.Generation(e.Name)
		if !ok || !strings.EqualFold(g, f.Generation) {
			return false
		}
	}
	if len(f.Types) > 0 {
		d, ok := lk.Detail(e.Name)
		if !ok || !d.HasTypes(f.Types) {
			return false
		}
	}
	return true
}

// Candidates returns the entries passing CheapMatch, in order.
func Candidates(entries []IndexEntry, f FilterState) []IndexEntry {
	f = f.normalized()
	out := make([]IndexEntry, 0, len(entries))
	for _, e := range entries {
		if matchText(e, f.Text) && matchRange(e, f.MinID, f.MaxID) {
			out = append(out, e)
		}
	}
	return out
}

// Apply returns the entries matching f, preserving order.
func Apply(entries []IndexEntry, f FilterState, lk Lookup) []IndexEntry {
	f = f.normalized()
	out := make([]IndexEntry, 0, len(entries))
	for _, e := range entries {
		if matches(e, f, lk) {
			out = append(out, e)
		}
	}
	return out
}
