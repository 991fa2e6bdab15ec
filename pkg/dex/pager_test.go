package dex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	t.Parallel()
	cases := []struct{ n, size, want int }{
		{0, 25, 1},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{1025, 100, 11},
		{3, 2, 2},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, TotalPages(tc.n, tc.size), "n=%d size=%d", tc.n, tc.size)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()
	for n := 0; n < 60; n++ {
		for _, size := range PageSizes {
			for _, page := range []int{-3, 0, 1, 2, 7, 1000} {
				got := Clamp(page, n, size)
				require.GreaterOrEqual(t, got, 1)
				require.LessOrEqual(t, got, TotalPages(n, size))
			}
		}
	}
}

func TestSlice_ThreeEntriesPageSizeTwo(t *testing.T) {
	t.Parallel()
	index := []IndexEntry{{"bulbasaur", 1}, {"ivysaur", 2}, {"venusaur", 3}}

	v := buildView(index, FilterState{}, 1, 2, PassCached, 1, mapLookup{})
	require.Equal(t, []string{"bulbasaur", "ivysaur"}, rowNames(v.Rows))
	require.Equal(t, 2, v.TotalPages)
	require.Equal(t, 3, v.Count)

	v = buildView(index, FilterState{}, 2, 2, PassCached, 1, mapLookup{})
	require.Equal(t, []string{"venusaur"}, rowNames(v.Rows))

	v = buildView(index, FilterState{}, 9, 2, PassCached, 1, mapLookup{})
	require.Equal(t, 2, v.Page)

	require.Empty(t, Slice([]IndexEntry{}, 1, 2))
}

func TestWindow(t *testing.T) {
	t.Parallel()
	cases := []struct {
		page, total int
		want        []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 0, 10}},
		{5, 10, []int{1, 0, 3, 4, 5, 6, 7, 0, 10}},
		{10, 10, []int{1, 0, 8, 9, 10}},
		{4, 10, []int{1, 2, 3, 4, 5, 6, 0, 10}},
		{0, 0, []int{1}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Window(tc.page, tc.total), "page=%d total=%d", tc.page, tc.total)
	}
}

func TestValidPageSize(t *testing.T) {
	t.Parallel()
	require.True(t, ValidPageSize(25))
	require.False(t, ValidPageSize(2))
	require.False(t, ValidPageSize(0))
}
