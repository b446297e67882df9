package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nesalia-inc/better-notion-sub002/config"
	"github.com/nesalia-inc/better-notion-sub002/filter"
	"github.com/nesalia-inc/better-notion-sub002/paginate"
	"github.com/nesalia-inc/better-notion-sub002/schema"
)

// DataSource is one queryable table: its identity, title, and parsed
// property schema.
type DataSource struct {
	client *Client

	ID    string
	Title string

	registry *schema.Registry
}

// Schema returns the parsed property schema.
func (d *DataSource) Schema() *schema.Registry {
	return d.registry
}

// Refresh invalidates the cached schema and re-fetches the data source in
// place.
func (d *DataSource) Refresh(ctx context.Context) error {
	d.client.InvalidateSchema(d.ID)
	fresh, err := d.client.DataSource(ctx, d.ID)
	if err != nil {
		return err
	}
	d.Title = fresh.Title
	d.registry = fresh.registry
	return nil
}

// QueryOptions tune one query.
type QueryOptions struct {
	// PageSize caps each page at up to 100 items. Zero lets the service
	// pick its default. The cap is never worked around by re-requesting
	// smaller pages.
	PageSize int
	// StartCursor resumes a query at a cursor captured earlier.
	StartCursor string
}

type queryRequest struct {
	Filter      json.RawMessage `json:"filter,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
	PageSize    int             `json:"page_size,omitempty"`
}

// listEnvelope is the paginated wire envelope every list endpoint returns.
type listEnvelope struct {
	Object     string            `json:"object"`
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor"`
	Type       string            `json:"type"`
}

// Query compiles conds against the schema and returns a lazy iterator over
// matching pages. Compilation failures, including illegal operators, are
// reported here, before anything goes on the wire. A nil conds queries
// everything.
func (d *DataSource) Query(conds filter.Conditions, opts *QueryOptions) (*paginate.Iterator[*Page], error) {
	compiled, err := filter.NewCompiler(d.registry).CompileJSON(conds)
	if err != nil {
		return nil, err
	}

	pageSize := d.client.pageSize
	startCursor := ""
	if opts != nil {
		if opts.PageSize != 0 {
			pageSize = opts.PageSize
		}
		startCursor = opts.StartCursor
	}
	if pageSize < 0 {
		return nil, fmt.Errorf("notion: page size %d is negative", pageSize)
	}
	if pageSize > config.MaxPageSize {
		return nil, fmt.Errorf("notion: page size %d exceeds the API maximum of %d", pageSize, config.MaxPageSize)
	}

	fetch := func(ctx context.Context, cursor *string) (paginate.Page[*Page], error) {
		req := queryRequest{Filter: compiled, PageSize: pageSize}
		if cursor != nil {
			req.StartCursor = *cursor
		}

		raw, err := d.client.transport.Request(ctx, http.MethodPost, "/data_sources/"+d.ID+"/query", nil, req)
		if err != nil {
			return paginate.Page[*Page]{}, err
		}

		var env listEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return paginate.Page[*Page]{}, fmt.Errorf("failed to unmarshal query response: %w", err)
		}
		if env.Object != "list" {
			return paginate.Page[*Page]{}, fmt.Errorf("notion: expected a list envelope, got object %q", env.Object)
		}

		pages := make([]*Page, 0, len(env.Results))
		for i, res := range env.Results {
			page, err := d.client.parsePage(res, d.registry)
			if err != nil {
				return paginate.Page[*Page]{}, fmt.Errorf("result %d: %w", i, err)
			}
			pages = append(pages, page)
		}
		return paginate.Page[*Page]{Results: pages, HasMore: env.HasMore, NextCursor: env.NextCursor}, nil
	}

	if startCursor != "" {
		return paginate.Resume(fetch, startCursor), nil
	}
	return paginate.New(fetch), nil
}

// Batch is one page of query results plus its continuation state.
type Batch struct {
	Pages      []*Page
	HasMore    bool
	NextCursor *string
}

// QueryOnce fetches exactly one page of results, for callers that thread
// cursors themselves.
func (d *DataSource) QueryOnce(ctx context.Context, conds filter.Conditions, opts *QueryOptions) (*Batch, error) {
	it, err := d.Query(conds, opts)
	if err != nil {
		return nil, err
	}
	pages, err := it.Advance(ctx)
	if err != nil {
		return nil, err
	}
	return &Batch{Pages: pages, HasMore: !it.Done(), NextCursor: it.Cursor()}, nil
}
