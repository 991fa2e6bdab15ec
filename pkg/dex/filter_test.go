package dex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var sampleIndex = []IndexEntry{
	{Name: "bulbasaur", ID: 1},
	{Name: "ivysaur", ID: 2},
	{Name: "venusaur", ID: 3},
	{Name: "diglett", ID: 50},
	{Name: "porygon-50x", ID: 474},
	{Name: "chikorita", ID: 152},
	{Name: "missingno", ID: 0},
}

func TestApply_TextAndRange(t *testing.T) {
	t.Parallel()

	empty := mapLookup{}
	cases := []struct {
		name   string
		filter FilterState
		want   []string
	}{
		{
			name:   "empty matches all",
			filter: FilterState{},
			want:   names(sampleIndex),
		},
		{
			name:   "substring case insensitive",
			filter: FilterState{Text: "  SAUR "},
			want:   []string{"bulbasaur", "ivysaur", "venusaur"},
		},
		{
			name:   "numeric text is exact id",
			filter: FilterState{Text: "50"},
			want:   []string{"diglett"},
		},
		{
			name:   "numeric text never matches unknown id",
			filter: FilterState{Text: "0"},
			want:   []string{},
		},
		{
			name:   "inclusive range",
			filter: FilterState{MinID: intp(2), MaxID: intp(50)},
			want:   []string{"ivysaur", "venusaur", "diglett"},
		},
		{
			name:   "open upper bound excludes unknown id",
			filter: FilterState{MinID: intp(100)},
			want:   []string{"porygon-50x", "chikorita"},
		},
		{
			name:   "text and range are anded",
			filter: FilterState{Text: "saur", MaxID: intp(2)},
			want:   []string{"bulbasaur", "ivysaur"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Apply(sampleIndex, tc.filter, empty)
			require.Equal(t, tc.want, names(got))
			require.Equal(t, names(got), names(Candidates(sampleIndex, tc.filter)))
		})
	}
}

func TestApply_PreservesOrderAsSubsequence(t *testing.T) {
	t.Parallel()
	filters := []FilterState{
		{Text: "a"},
		{Text: "o", MinID: intp(3)},
		{MaxID: intp(100)},
		{Text: "3"},
	}
	for _, f := range filters {
		got := Apply(sampleIndex, f, mapLookup{})
		j := 0
		for _, e := range got {
			for j < len(sampleIndex) && sampleIndex[j] != e {
				j++
			}
			require.Less(t, j, len(sampleIndex), "entry %v out of order for %+v", e, f)
			j++
		}
	}
}

func TestApply_TypesRequireCachedDetail(t *testing.T) {
	t.Parallel()
	lk := mapLookup{details: map[string]DetailRecord{
		"bulbasaur": {ID: 1, Types: []string{"grass", "poison"}},
		"ivysaur":   {ID: 2, Types: []string{"grass"}},
	}}

	got := Apply(sampleIndex, FilterState{Types: []string{"grass", "poison"}}, lk)
	require.Equal(t, []string{"bulbasaur"}, names(got))

	got = Apply(sampleIndex, FilterState{Types: []string{"Grass"}}, lk)
	require.Equal(t, []string{"bulbasaur", "ivysaur"}, names(got), "venusaur has no cached detail")
}

func TestApply_GenerationRequiresCachedTag(t *testing.T) {
	t.Parallel()
	lk := mapLookup{gens: map[string]string{
		"bulbasaur": "I",
		"chikorita": "II",
	}}

	got := Apply(sampleIndex, FilterState{Generation: "i"}, lk)
	require.Equal(t, []string{"bulbasaur"}, names(got))

	got = Apply(sampleIndex, FilterState{Generation: "generation-ii"}, lk)
	require.Equal(t, []string{"chikorita"}, names(got))

	require.True(t, CheapMatch(sampleIndex[1], FilterState{Generation: "I"}))
	require.False(t, Matches(sampleIndex[1], FilterState{Generation: "I"}, lk))
}

func TestFilterState_ToggleType(t *testing.T) {
	t.Parallel()
	var f FilterState

	require.NoError(t, f.ToggleType("grass", 2))
	require.NoError(t, f.ToggleType("Poison", 2))
	require.Equal(t, []string{"grass", "poison"}, f.Types)

	require.ErrorIs(t, f.ToggleType("fire", 2), ErrTypeLimit)
	require.Equal(t, []string{"grass", "poison"}, f.Types)

	require.NoError(t, f.ToggleType("grass", 2))
	require.Equal(t, []string{"poison"}, f.Types)

	require.NoError(t, f.ToggleType("fire", 3))
	require.NoError(t, f.ToggleType("water", 3))
	require.Len(t, f.Types, 3)
}

func TestFilterState_Needs(t *testing.T) {
	t.Parallel()
	require.False(t, FilterState{Text: "x", MinID: intp(1)}.NeedsDetails())
	require.False(t, FilterState{Text: "x"}.NeedsGeneration())
	require.True(t, FilterState{Types: []string{"fire"}}.NeedsDetails())
	require.True(t, FilterState{Generation: "I"}.NeedsGeneration())
	require.True(t, FilterState{}.IsZero())
	require.False(t, FilterState{MaxID: intp(3)}.IsZero())
}

func TestFilterState_CloneIsDeep(t *testing.T) {
	t.Parallel()
	f := FilterState{MinID: intp(1), Types: []string{"fire"}}
	c := f.Clone()
	*c.MinID = 9
	c.Types[0] = "water"
	require.Equal(t, 1, *f.MinID)
	require.Equal(t, "fire", f.Types[0])
}
