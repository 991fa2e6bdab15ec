package mcpserver_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/mcpserver"
	"github.com/jlrickert/dexview/pkg/pokeapi"
	"github.com/jlrickert/dexview/pkg/pokeapi/pokeapitest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type harness struct {
	api     *pokeapitest.Server
	session *mcp.ClientSession
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := pokeapitest.NewStarterServer()
	t.Cleanup(api.Close)

	client, err := pokeapi.NewClient(api.BaseURL(), 5*time.Second)
	require.NoError(t, err)
	cat := catalog.New(client, catalog.Options{})
	d := dex.New(client, nil, dex.Options{})
	t.Cleanup(d.Close)

	srv := mcpserver.New(cat, d, mcpserver.Options{Version: "test"})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := srv.MCP().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	c := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := c.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return &harness{api: api, session: cs}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) (string, bool) {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestListTools(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	res, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"search", "random", "profile", "dex_page"}, names)
}

func TestSearchTool(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, isErr := h.call(t, "search", map[string]any{"query": "Pikachu"})
	require.False(t, isErr)
	var card catalog.Card
	require.NoError(t, json.Unmarshal([]byte(out), &card))
	require.Equal(t, 25, card.ID)
	require.Equal(t, []string{"electric"}, card.Types)

	out, isErr = h.call(t, "search", map[string]any{"query": "agumon"})
	require.True(t, isErr)
	require.Contains(t, out, catalog.MsgNotFound)
}

func TestRandomTool(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	out, isErr := h.call(t, "random", nil)
	require.False(t, isErr)
	var card catalog.Card
	require.NoError(t, json.Unmarshal([]byte(out), &card))
	require.NotZero(t, card.ID)
}

func TestProfileTool(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	out, isErr := h.call(t, "profile", map[string]any{"pokemon": "bulbasaur"})
	require.False(t, isErr)

	var p catalog.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Equal(t, 318, p.BaseStatTotal)
	require.Equal(t, []string{"bulbasaur", "ivysaur", "venusaur"}, p.Evolution)
	require.Equal(t, "A strange seed was planted on its back at birth.", p.Flavor)

	out, isErr = h.call(t, "profile", map[string]any{"pokemon": " "})
	require.True(t, isErr)
	require.Contains(t, out, "pokemon is required")
}

func TestDexPageTool(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, isErr := h.call(t, "dex_page", map[string]any{"types": []string{"fire"}})
	require.False(t, isErr)
	var v dex.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, 1, v.Count)
	require.Equal(t, "charmander", v.Rows[0].Name)
	require.Equal(t, []string{"fire"}, v.Rows[0].Types)
	require.Equal(t, dex.PassEnriched, v.Pass)

	out, isErr = h.call(t, "dex_page", map[string]any{"generation": "2"})
	require.False(t, isErr)
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, 1, v.Count)
	require.Equal(t, "chikorita", v.Rows[0].Name)
	require.Equal(t, "Gen II", v.Rows[0].Generation)

	out, isErr = h.call(t, "dex_page", map[string]any{"page_size": 10, "page": 9})
	require.False(t, isErr)
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, 7, v.Count)
	require.Equal(t, 1, v.Page)
	require.Len(t, v.Rows, 7)
}

func TestDexPageTool_FirstCallBuildsOnlyRequestedPage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, isErr := h.call(t, "dex_page", map[string]any{"text": "char"})
	require.False(t, isErr)
	var v dex.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, []string{"charmander"}, rowNames(v.Rows))

	require.Equal(t, 1, h.api.Hits("/api/v2/pokemon"))
	require.Equal(t, 1, h.api.Hits("/api/v2/pokemon/charmander"))
	require.Zero(t, h.api.Hits("/api/v2/pokemon/bulbasaur"), "the unfiltered first page is never built")
	require.Zero(t, h.api.Hits("/api/v2/pokemon-species/1"))
}

func TestDexPageTool_UnknownFilterValues(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, isErr := h.call(t, "dex_page", map[string]any{"generation": "12"})
	require.True(t, isErr)
	require.Contains(t, out, `unknown generation "12"`)

	out, isErr = h.call(t, "dex_page", map[string]any{"types": []string{"plasma"}})
	require.True(t, isErr)
	require.Contains(t, out, `unknown type "plasma"`)

	require.Zero(t, h.api.Hits("/api/v2/pokemon"), "rejected before any fetch")
}

func TestDexPageTool_InvalidPageSize(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	out, isErr := h.call(t, "dex_page", map[string]any{"page_size": 7})
	require.True(t, isErr)
	require.Contains(t, out, "page_size must be one of")
}

func TestDexPageTool_InitFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.api.SetStatus("/api/v2/pokemon", 500)
	out, isErr := h.call(t, "dex_page", nil)
	require.True(t, isErr)
	require.Contains(t, out, dex.MsgInitFailed)
}

func rowNames(rows []dex.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}
