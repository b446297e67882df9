package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nesalia-inc/better-notion-sub002/cache"
	"github.com/nesalia-inc/better-notion-sub002/property"
	"github.com/nesalia-inc/better-notion-sub002/richtext"
	"github.com/nesalia-inc/better-notion-sub002/schema"
)

// ParentRef identifies the container a page lives in.
type ParentRef struct {
	Type         string `json:"type"`
	PageID       string `json:"page_id,omitempty"`
	DataSourceID string `json:"data_source_id,omitempty"`
	DatabaseID   string `json:"database_id,omitempty"`
	BlockID      string `json:"block_id,omitempty"`
	Workspace    bool   `json:"workspace,omitempty"`
}

// Page is a typed page entity. Property access goes through the codec via
// Prop; derived relations such as the parent page are memoized per instance
// and invalidated by the caller. Two Page instances for the same remote
// page have independent caches.
type Page struct {
	ID             string
	URL            string
	CreatedTime    time.Time
	LastEditedTime time.Time
	Archived       bool
	InTrash        bool
	Parent         ParentRef

	client     *Client
	registry   *schema.Registry
	properties map[string]json.RawMessage
	staged     map[string]json.RawMessage
	slots      *cache.Slots[*Page]
}

type pageResponse struct {
	Object         string                     `json:"object"`
	ID             string                     `json:"id"`
	URL            string                     `json:"url"`
	CreatedTime    time.Time                  `json:"created_time"`
	LastEditedTime time.Time                  `json:"last_edited_time"`
	Archived       bool                       `json:"archived"`
	InTrash        bool                       `json:"in_trash"`
	Parent         ParentRef                  `json:"parent"`
	Properties     map[string]json.RawMessage `json:"properties"`
}

func (c *Client) parsePage(raw json.RawMessage, registry *schema.Registry) (*Page, error) {
	var resp pageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page: %w", err)
	}
	if resp.Object != "" && resp.Object != "page" {
		return nil, fmt.Errorf("notion: expected a page object, got %q", resp.Object)
	}
	return &Page{
		ID:             resp.ID,
		URL:            resp.URL,
		CreatedTime:    resp.CreatedTime,
		LastEditedTime: resp.LastEditedTime,
		Archived:       resp.Archived,
		InTrash:        resp.InTrash,
		Parent:         resp.Parent,
		client:         c,
		registry:       registry,
		properties:     resp.Properties,
		slots:          cache.NewSlots[*Page](),
	}, nil
}

// schema resolves the page's property schema, fetching it from the parent
// data source on first use.
func (p *Page) schema(ctx context.Context) (*schema.Registry, error) {
	if p.registry != nil {
		return p.registry, nil
	}
	if p.Parent.DataSourceID == "" {
		return nil, fmt.Errorf("notion: page %s has no data source parent, so no property schema is available", p.ID)
	}
	registry, err := p.client.Schema(ctx, p.Parent.DataSourceID)
	if err != nil {
		return nil, err
	}
	p.registry = registry
	return registry, nil
}

// Prop decodes one property into its typed value. The name resolves
// case-insensitively, or by property id.
func (p *Page) Prop(ctx context.Context, name string) (property.Value, error) {
	registry, err := p.schema(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := registry.Get(name)
	if err != nil {
		return nil, err
	}
	raw, err := p.rawForEntry(entry)
	if err != nil {
		return nil, err
	}
	return property.Decode(raw, entry)
}

// RawProp returns the untouched JSON of one property value, keyed by its
// exact wire name. It bypasses the codec and with it every invariant this
// package enforces; prefer Prop.
func (p *Page) RawProp(name string) (json.RawMessage, bool) {
	raw, ok := p.properties[name]
	return raw, ok
}

func (p *Page) rawForEntry(entry *schema.Entry) (json.RawMessage, error) {
	if raw, ok := p.properties[entry.Name]; ok {
		return raw, nil
	}
	// The page may predate a rename; fall back to matching the stable id.
	for _, raw := range p.properties {
		var head struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err == nil && head.ID == entry.ID {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("notion: page %s carries no value for property %q (id %s)", p.ID, entry.Name, entry.ID)
}

// SetProp stages one property write. Encoding runs immediately, so illegal
// writes, including any write to a read-only type, fail here without a
// request. Nothing is sent until Save.
func (p *Page) SetProp(ctx context.Context, name string, v property.Value) error {
	registry, err := p.schema(ctx)
	if err != nil {
		return err
	}
	entry, err := registry.Get(name)
	if err != nil {
		return err
	}
	payload, err := property.Encode(v, entry)
	if err != nil {
		return err
	}
	if p.staged == nil {
		p.staged = make(map[string]json.RawMessage)
	}
	p.staged[entry.Name] = payload
	return nil
}

// Save sends every staged property write in one update and refreshes the
// page from the response. With nothing staged it is a no-op.
func (p *Page) Save(ctx context.Context) error {
	if len(p.staged) == 0 {
		return nil
	}

	body := map[string]any{"properties": p.staged}
	raw, err := p.client.transport.Request(ctx, http.MethodPatch, "/pages/"+normalizeID(p.ID), nil, body)
	if err != nil {
		return err
	}

	updated, err := p.client.parsePage(raw, p.registry)
	if err != nil {
		return err
	}
	p.URL = updated.URL
	p.LastEditedTime = updated.LastEditedTime
	p.Archived = updated.Archived
	p.InTrash = updated.InTrash
	p.Parent = updated.Parent
	p.properties = updated.properties
	p.staged = nil
	return nil
}

// Title returns the page title as plain text.
func (p *Page) Title(ctx context.Context) (string, error) {
	registry, err := p.schema(ctx)
	if err != nil {
		return "", err
	}
	entry, err := registry.Title()
	if err != nil {
		return "", err
	}
	v, err := p.Prop(ctx, entry.Name)
	if err != nil {
		return "", err
	}
	title, ok := v.(property.Title)
	if !ok {
		return "", fmt.Errorf("notion: property %q decoded as %s, not title", entry.Name, v.Type())
	}
	return richtext.PlainText(title.Segments), nil
}

// ParentPage returns the parent page, memoized on this instance. Pages
// whose parent is not a page (a data source, a workspace) return nil. Call
// InvalidateParent after a move.
func (p *Page) ParentPage(ctx context.Context) (*Page, error) {
	if parent, ok := p.slots.Get("parent"); ok {
		return parent, nil
	}
	if p.Parent.PageID == "" {
		return nil, nil
	}
	parent, err := p.client.Page(ctx, p.Parent.PageID)
	if err != nil {
		return nil, err
	}
	p.slots.Set("parent", parent)
	return parent, nil
}

// InvalidateParent drops the memoized parent.
func (p *Page) InvalidateParent() {
	p.slots.Delete("parent")
}

// ClearCache drops every memoized relation on this instance.
func (p *Page) ClearCache() {
	p.slots.Clear()
}

// PlainProp renders one property as a display string.
func (p *Page) PlainProp(ctx context.Context, name string) (string, error) {
	v, err := p.Prop(ctx, name)
	if err != nil {
		return "", err
	}
	return displayValue(v), nil
}

func displayValue(v property.Value) string {
	switch val := v.(type) {
	case property.Title:
		return richtext.PlainText(val.Segments)
	case property.Text:
		return richtext.PlainText(val.Segments)
	case property.Number:
		if val.Value != nil {
			return formatNumber(*val.Value)
		}
	case property.Checkbox:
		if val.Checked {
			return "✓"
		}
		return "✗"
	case property.Select:
		if val.Option != nil {
			return val.Option.Name
		}
	case property.Status:
		if val.Option != nil {
			return val.Option.Name
		}
	case property.MultiSelect:
		names := make([]string, 0, len(val.Options))
		for _, o := range val.Options {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", ")
	case property.Date:
		if val.Value != nil {
			if val.Value.End != nil {
				return val.Value.Start.String() + " → " + val.Value.End.String()
			}
			return val.Value.Start.String()
		}
	case property.People:
		names := make([]string, 0, len(val.Users))
		for _, u := range val.Users {
			names = append(names, u.Name)
		}
		return strings.Join(names, ", ")
	case property.Files:
		names := make([]string, 0, len(val.Files))
		for _, f := range val.Files {
			names = append(names, f.Name)
		}
		return strings.Join(names, ", ")
	case property.Relation:
		return strings.Join(val.IDs, ", ")
	case property.URL:
		return val.Value
	case property.Email:
		return val.Value
	case property.Phone:
		return val.Value
	case property.CreatedTime:
		return val.Time.Format("2006-01-02 15:04:05")
	case property.LastEditedTime:
		return val.Time.Format("2006-01-02 15:04:05")
	case property.CreatedBy:
		return val.User.Name
	case property.LastEditedBy:
		return val.User.Name
	case property.UniqueID:
		if val.Prefix != nil {
			return *val.Prefix + "-" + strconv.FormatInt(val.Number, 10)
		}
		return strconv.FormatInt(val.Number, 10)
	case property.Formula:
		switch val.Kind {
		case "string":
			if val.String != nil {
				return *val.String
			}
		case "number":
			if val.Number != nil {
				return formatNumber(*val.Number)
			}
		case "boolean":
			if val.Boolean != nil {
				return strconv.FormatBool(*val.Boolean)
			}
		case "date":
			if val.Date != nil {
				return val.Date.Start.String()
			}
		}
	case property.Rollup:
		switch val.Kind {
		case "number":
			if val.Number != nil {
				return formatNumber(*val.Number)
			}
		case "date":
			if val.Date != nil {
				return val.Date.Start.String()
			}
		case "array":
			parts := make([]string, 0, len(val.Array))
			for _, elem := range val.Array {
				parts = append(parts, displayValue(elem))
			}
			return strings.Join(parts, ", ")
		}
	case property.Verification:
		return val.State
	case property.Place:
		if val.Name != "" {
			return val.Name
		}
		return val.Address
	}
	return ""
}

// formatNumber formats a float64 as a string, removing trailing zeros
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
