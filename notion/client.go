package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/maypok86/otter"
	"go.uber.org/zap"

	"github.com/nesalia-inc/better-notion-sub002/config"
	"github.com/nesalia-inc/better-notion-sub002/internal/logging"
	"github.com/nesalia-inc/better-notion-sub002/richtext"
	"github.com/nesalia-inc/better-notion-sub002/schema"
)

const schemaCacheSize = 256

// Client talks to the API and materializes typed entities. Parsed schema
// registries are cached per data source id; InvalidateSchema drops a cached
// registry after the schema changed remotely.
type Client struct {
	transport Transport
	logger    *zap.Logger
	schemas   otter.Cache[string, *schema.Registry]
	pageSize  int
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport, e.g. with a fake in
// tests.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger replaces the default logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client from configuration.
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	c := &Client{pageSize: cfg.PageSize}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		logger, err := logging.NewLogger(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		c.logger = logger
	}
	if c.transport == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		c.transport = NewHTTPTransport(cfg, c.logger)
	}

	schemas, err := otter.MustBuilder[string, *schema.Registry](schemaCacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema cache: %w", err)
	}
	c.schemas = schemas

	return c, nil
}

type dataSourceResponse struct {
	Object     string          `json:"object"`
	ID         string          `json:"id"`
	Title      json.RawMessage `json:"title"`
	Properties json.RawMessage `json:"properties"`
}

// DataSource fetches a data source and its parsed schema.
func (c *Client) DataSource(ctx context.Context, id string) (*DataSource, error) {
	id = normalizeID(id)

	raw, err := c.transport.Request(ctx, http.MethodGet, "/data_sources/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var resp dataSourceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data source: %w", err)
	}

	registry, err := schema.Parse(resp.Properties)
	if err != nil {
		return nil, err
	}
	c.schemas.Set(id, registry)
	c.logger.Debug("schema cached", zap.String("data_source", id), zap.Int("properties", registry.Len()))

	title := ""
	if len(resp.Title) > 0 {
		segments, err := richtext.Parse(resp.Title)
		if err != nil {
			return nil, err
		}
		title = richtext.PlainText(segments)
	}

	return &DataSource{client: c, ID: resp.ID, Title: title, registry: registry}, nil
}

// Schema returns the parsed schema of a data source, from cache when
// possible.
func (c *Client) Schema(ctx context.Context, dataSourceID string) (*schema.Registry, error) {
	id := normalizeID(dataSourceID)
	if registry, ok := c.schemas.Get(id); ok {
		return registry, nil
	}
	ds, err := c.DataSource(ctx, id)
	if err != nil {
		return nil, err
	}
	return ds.registry, nil
}

// InvalidateSchema drops the cached registry for a data source. The next
// lookup fetches and parses a fresh one.
func (c *Client) InvalidateSchema(dataSourceID string) {
	c.schemas.Delete(normalizeID(dataSourceID))
}

// Page fetches a single page by id.
func (c *Client) Page(ctx context.Context, id string) (*Page, error) {
	raw, err := c.transport.Request(ctx, http.MethodGet, "/pages/"+normalizeID(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return c.parsePage(raw, nil)
}

// normalizeID validates a UUID in dashed or compact form and returns the
// compact form the API paths use. Anything that is not a UUID passes
// through untouched.
func normalizeID(id string) string {
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return strings.ReplaceAll(u.String(), "-", "")
}
