package pokeapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jlrickert/dexview/pkg/pokeapi"
	"github.com/jlrickert/dexview/pkg/pokeapi/pokeapitest"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, srv *pokeapitest.Server, opts ...pokeapi.Option) *pokeapi.Client {
	t.Helper()
	c, err := pokeapi.NewClient(srv.BaseURL(), 5*time.Second, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()
	_, err := pokeapi.NewClient("", time.Second)
	require.Error(t, err)
}

func TestClient_List(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewStarterServer()
	defer srv.Close()
	c := newClient(t, srv)

	page, err := c.List(context.Background(), 2000, 0)
	require.NoError(t, err)
	require.Equal(t, len(pokeapitest.Starters()), page.Count)
	require.Equal(t, "bulbasaur", page.Results[0].Name)
	require.Equal(t, 1, pokeapi.ParseIDFromURL(page.Results[0].URL))

	page, err = c.List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	require.Equal(t, "ivysaur", page.Results[0].Name)
}

func TestClient_PokemonAndSpecies(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewStarterServer()
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	p, err := c.Pokemon(ctx, " Bulbasaur ")
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)
	require.Equal(t, []string{"grass", "poison"}, p.TypeNames())
	require.Equal(t, "https://img.example/artwork/1.png", p.Artwork())
	require.NotNil(t, p.BaseExperience)
	require.Equal(t, 64, *p.BaseExperience)

	sp, err := c.Species(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "generation-i", sp.Generation.Name)

	sp2, err := c.SpeciesByURL(ctx, p.Species.URL)
	require.NoError(t, err)
	require.Equal(t, sp.ID, sp2.ID)

	ec, err := c.EvolutionChain(ctx, sp.EvolutionChain.URL)
	require.NoError(t, err)
	require.Equal(t, "bulbasaur", ec.Chain.Species.Name)
	require.Equal(t, "ivysaur", ec.Chain.EvolvesTo[0].Species.Name)
}

func TestClient_NotFound(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewStarterServer()
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.Pokemon(context.Background(), "missingno")
	require.ErrorIs(t, err, pokeapi.ErrNotFound)
	require.True(t, pokeapi.IsNotFound(err))
}

func TestClient_StatusError(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewStarterServer()
	defer srv.Close()
	srv.SetStatus("/api/v2/pokemon/pikachu", http.StatusServiceUnavailable)
	c := newClient(t, srv)

	_, err := c.Pokemon(context.Background(), "pikachu")
	require.ErrorIs(t, err, pokeapi.ErrStatus)
	require.False(t, pokeapi.IsNotFound(err))

	var se *pokeapi.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusServiceUnavailable, se.Code)
	require.Equal(t, 1, srv.Hits("/api/v2/pokemon/pikachu"), "client must not retry")
}

func TestClient_CancellationPropagates(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewStarterServer()
	defer srv.Close()
	release := srv.Block("/api/v2/pokemon/pikachu")
	defer release()
	c := newClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Pokemon(ctx, "pikachu")
		done <- err
	}()

	require.Eventually(t, func() bool { return srv.Hits("/api/v2/pokemon/pikachu") == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not return after cancel")
	}
}

func TestClient_DiskCache(t *testing.T) {
	t.Parallel()
	srv := pokeapitest.NewStarterServer()
	defer srv.Close()

	cache, err := pokeapi.NewDiskCache(t.TempDir(), 1<<20)
	require.NoError(t, err)
	c := newClient(t, srv, pokeapi.WithCache(cache))
	ctx := context.Background()

	first, err := c.Pokemon(ctx, "ivysaur")
	require.NoError(t, err)
	second, err := c.Pokemon(ctx, "ivysaur")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, srv.Hits("/api/v2/pokemon/ivysaur"))

	_, err = c.Pokemon(ctx, "missingno")
	require.ErrorIs(t, err, pokeapi.ErrNotFound)
	_, err = c.Pokemon(ctx, "missingno")
	require.ErrorIs(t, err, pokeapi.ErrNotFound)
	require.Equal(t, 2, srv.Hits("/api/v2/pokemon/missingno"), "failures are not cached")

	require.NoError(t, cache.Purge())
	_, err = c.Pokemon(ctx, "ivysaur")
	require.NoError(t, err)
	require.Equal(t, 2, srv.Hits("/api/v2/pokemon/ivysaur"))
}

func TestParseIDFromURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int
	}{
		{"https://pokeapi.co/api/v2/pokemon/1/", 1},
		{"https://pokeapi.co/api/v2/pokemon/10034", 10034},
		{"https://pokeapi.co/api/v2/pokemon/bulbasaur/", 0},
		{"https://pokeapi.co/api/v2/pokemon-species/1/", 0},
		{"", 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, pokeapi.ParseIDFromURL(tc.in), tc.in)
	}
}
