package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/jlrickert/dexview/pkg/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Catalog is the lookup surface exposed as tools.
type Catalog interface {
	Search(ctx context.Context, query string) (catalog.Card, error)
	Random(ctx context.Context) (catalog.Card, error)
	Profile(ctx context.Context, nameOrID string) (catalog.Profile, error)
}

// Pager answers filtered National Dex page requests.
type Pager interface {
	Init(ctx context.Context) error
	Preset(q dex.Query) error
	Query(ctx context.Context, q dex.Query) (dex.View, error)
	Snapshot() dex.State
}

type Options struct {
	Name    string
	Version string
	Logger  *slog.Logger
}

// Server wraps an MCP server exposing the catalog and the National Dex.
type Server struct {
	srv *mcp.Server
	cat Catalog
	dex Pager
	log *slog.Logger

	// dex_page calls share one controller; a concurrent call would cancel
	// the cycle of the other.
	pageMu sync.Mutex
}

func New(cat Catalog, pager Pager, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "dexview"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		srv: mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, nil),
		cat: cat,
		dex: pager,
		log: log.OrNop(opts.Logger),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying server, e.g. to connect custom transports.
func (s *Server) MCP() *mcp.Server { return s.srv }

// Run serves over stdio until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server starting", "transport", "stdio")
	err := s.srv.Run(ctx, &mcp.StdioTransport{})
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func toJSONResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// toolError keeps the user-facing message when err carries one.
func toolError(err error, fallback string) error {
	if msg := catalog.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	if fallback != "" {
		return errors.New(fallback)
	}
	return err
}
