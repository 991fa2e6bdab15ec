package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jlrickert/dexview/pkg/log"
)

// Source is the read-only view of PokeAPI used by the rest of dexview.
type Source interface {
	List(ctx context.Context, limit, offset int) (ListPage, error)
	Pokemon(ctx context.Context, nameOrID string) (Pokemon, error)
	Species(ctx context.Context, nameOrID string) (Species, error)
	SpeciesByURL(ctx context.Context, u string) (Species, error)
	EvolutionChain(ctx context.Context, u string) (EvolutionChain, error)
}

// ResponseCache stores raw response bodies keyed by request URL.
type ResponseCache interface {
	Get(u string) ([]byte, bool)
	Put(u string, body []byte) error
}

// Client talks to the PokeAPI v2 REST API. It never retries; a failed request
// is reported to the caller.
type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
	cache   ResponseCache
}

var _ Source = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The configured timeout is not
// applied to a caller supplied client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache enables the response cache.
func WithCache(rc ResponseCache) Option {
	return func(c *Client) { c.cache = rc }
}

func WithLogger(lg *slog.Logger) Option {
	return func(c *Client) { c.log = log.OrNop(lg) }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("empty base url")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := &Client{
		log:     log.NewNopLogger(),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) List(ctx context.Context, limit, offset int) (ListPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var page ListPage
	err := c.getJSON(ctx, c.baseURL+"/pokemon?"+q.Encode(), &page)
	return page, err
}

func (c *Client) Pokemon(ctx context.Context, nameOrID string) (Pokemon, error) {
	var p Pokemon
	err := c.getJSON(ctx, c.resourceURL("pokemon", nameOrID), &p)
	return p, err
}

func (c *Client) Species(ctx context.Context, nameOrID string) (Species, error) {
	var s Species
	err := c.getJSON(ctx, c.resourceURL("pokemon-species", nameOrID), &s)
	return s, err
}

func (c *Client) SpeciesByURL(ctx context.Context, u string) (Species, error) {
	var s Species
	err := c.getJSON(ctx, u, &s)
	return s, err
}

func (c *Client) EvolutionChain(ctx context.Context, u string) (EvolutionChain, error) {
	var ec EvolutionChain
	err := c.getJSON(ctx, u, &ec)
	return ec, err
}

func (c *Client) resourceURL(kind, nameOrID string) string {
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	return c.baseURL + "/" + kind + "/" + url.PathEscape(key)
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	if c.cache != nil {
		if body, ok := c.cache.Get(u); ok {
			if err := json.Unmarshal(body, out); err == nil {
				c.log.Debug("response cache hit", "url", u)
				return nil
			}
			c.log.Warn("discarding unreadable cached response", "url", u)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("get %s: %w", u, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn("close response body failed", "error", cerr)
		}
	}()
	c.log.Debug("pokeapi request", "url", u, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewStatusError(resp.StatusCode, u)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("read %s: %w", u, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}

	if c.cache != nil {
		if err := c.cache.Put(u, body); err != nil {
			c.log.Warn("response cache write failed", "url", u, "error", err)
		}
	}
	return nil
}
