package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerSearchTool()
	s.registerRandomTool()
	s.registerProfileTool()
	s.registerDexPageTool()
}

type searchArgs struct {
	Query string `json:"query" jsonschema:"Pokémon name or National Dex number"`
}

func (s *Server) registerSearchTool() {
	tool := &mcp.Tool{
		Name:        "search",
		Description: "Look up one Pokémon by exact name or National Dex number.",
	}
	mcp.AddTool(s.srv, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
		card, err := s.cat.Search(ctx, args.Query)
		if errors.Is(err, catalog.ErrEmptyQuery) {
			return nil, nil, errors.New("query is required")
		}
		if err != nil {
			return nil, nil, toolError(err, catalog.MsgNotFound)
		}
		return toJSONResult(card)
	})
}

type randomArgs struct{}

func (s *Server) registerRandomTool() {
	tool := &mcp.Tool{
		Name:        "random",
		Description: "Pick a uniformly random Pokémon from the base list.",
	}
	mcp.AddTool(s.srv, tool, func(ctx context.Context, _ *mcp.CallToolRequest, _ randomArgs) (*mcp.CallToolResult, any, error) {
		card, err := s.cat.Random(ctx)
		if err != nil {
			return nil, nil, toolError(err, catalog.MsgRandomFailed)
		}
		return toJSONResult(card)
	})
}

type profileArgs struct {
	Pokemon string `json:"pokemon" jsonschema:"Pokémon name or National Dex number"`
}

func (s *Server) registerProfileTool() {
	tool := &mcp.Tool{
		Name:        "profile",
		Description: "Full profile: flavor text, stats, abilities and evolution line.",
	}
	mcp.AddTool(s.srv, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args profileArgs) (*mcp.CallToolResult, any, error) {
		key := strings.TrimSpace(args.Pokemon)
		if key == "" {
			return nil, nil, errors.New("pokemon is required")
		}
		p, err := s.cat.Profile(ctx, key)
		if err != nil {
			return nil, nil, toolError(err, catalog.MsgProfileFailed)
		}
		return toJSONResult(p)
	})
}

type dexPageArgs struct {
	Text       string   `json:"text,omitempty" jsonschema:"name substring, or an exact National Dex number"`
	MinID      *int     `json:"min_id,omitempty" jsonschema:"lowest National Dex number, inclusive"`
	MaxID      *int     `json:"max_id,omitempty" jsonschema:"highest National Dex number, inclusive"`
	Generation string   `json:"generation,omitempty" jsonschema:"generation such as I, II or 3"`
	Types      []string `json:"types,omitempty" jsonschema:"types every result must have"`
	Page       int      `json:"page,omitempty" jsonschema:"1-based page number"`
	PageSize   int      `json:"page_size,omitempty" jsonschema:"one of 10, 25, 50 or 100"`
}

func (s *Server) registerDexPageTool() {
	tool := &mcp.Tool{
		Name:        "dex_page",
		Description: "Filter the National Dex and return one page of results with types and generations.",
	}
	mcp.AddTool(s.srv, tool, func(ctx context.Context, _ *mcp.CallToolRequest, args dexPageArgs) (*mcp.CallToolResult, any, error) {
		q := dex.Query{
			Filter: dex.FilterState{
				Text:       args.Text,
				MinID:      args.MinID,
				MaxID:      args.MaxID,
				Generation: args.Generation,
				Types:      args.Types,
			},
			Page:     args.Page,
			PageSize: args.PageSize,
		}
		if err := q.Validate(); err != nil {
			return nil, nil, pageArgError(err)
		}

		s.pageMu.Lock()
		defer s.pageMu.Unlock()

		if !s.dex.Snapshot().Initialized {
			// the first cycle of Init then builds this page
			if err := s.dex.Preset(q); err != nil {
				return nil, nil, pageArgError(err)
			}
		}
		if err := s.dex.Init(ctx); err != nil {
			s.log.Error("dex_page init failed", "error", err)
			if s.dex.Snapshot().Initialized {
				return nil, nil, errors.New(dex.MsgLoadFailed)
			}
			return nil, nil, errors.New(dex.MsgInitFailed)
		}
		// served from the session cache when Init just built it
		v, err := s.dex.Query(ctx, q)
		switch {
		case errors.Is(err, dex.ErrTypeLimit):
			return nil, nil, pageArgError(err)
		case err != nil:
			s.log.Error("dex_page failed", "error", err)
			return nil, nil, errors.New(dex.MsgLoadFailed)
		}
		return toJSONResult(v)
	})
}

func pageArgError(err error) error {
	if errors.Is(err, dex.ErrInvalidPageSize) {
		return fmt.Errorf("page_size must be one of %v", dex.PageSizes)
	}
	return err
}
