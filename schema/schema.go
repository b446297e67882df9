// Package schema models a data source's property schema: the declared name,
// id, type, and type-specific configuration of each property. A parsed
// Registry is immutable; a schema update on the service side means parsing a
// fresh one.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Option is one choice of a select, multi-select, or status property.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// SelectConfig holds the ordered option list of a select or multi-select
// property.
type SelectConfig struct {
	Options []Option `json:"options"`
}

// StatusGroup is a named grouping of status options.
type StatusGroup struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Color     string   `json:"color,omitempty"`
	OptionIDs []string `json:"option_ids,omitempty"`
}

// StatusConfig holds the options and groups of a status property.
type StatusConfig struct {
	Options []Option      `json:"options"`
	Groups  []StatusGroup `json:"groups,omitempty"`
}

// RelationConfig identifies the data source a relation property points at.
type RelationConfig struct {
	DataSourceID   string `json:"data_source_id"`
	DualPropertyID string `json:"dual_property_id,omitempty"`
}

// RollupConfig describes how a rollup property aggregates a related
// property.
type RollupConfig struct {
	Function           string `json:"function"`
	RelationPropertyID string `json:"relation_property_id"`
	RollupPropertyID   string `json:"rollup_property_id"`
}

// NumberConfig holds the display format of a number property.
type NumberConfig struct {
	Format string `json:"format"`
}

// FormulaConfig holds the expression of a formula property.
type FormulaConfig struct {
	Expression string `json:"expression"`
}

// UniqueIDConfig holds the optional prefix of a unique id property.
type UniqueIDConfig struct {
	Prefix *string `json:"prefix"`
}

// Entry is the declared definition of one property. The id is stable across
// renames; the name is the user-visible label. At most one of the config
// fields is set, matching Type.
type Entry struct {
	ID   string
	Name string
	Type string

	Select      *SelectConfig
	MultiSelect *SelectConfig
	Status      *StatusConfig
	Relation    *RelationConfig
	Rollup      *RollupConfig
	Number      *NumberConfig
	Formula     *FormulaConfig
	UniqueID    *UniqueIDConfig
}

// NotFoundError reports a lookup that matched neither a property id nor a
// property name.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema: no property with name or id %q", e.Key)
}

// InvariantError reports a schema that violates a structural guarantee the
// service is expected to uphold, such as not having exactly one title
// property.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "schema: " + e.Reason
}

// Registry is the parsed schema of one data source, addressable by property
// id (case-sensitive, ids are opaque tokens) and by property name
// (case-insensitive).
type Registry struct {
	entries []*Entry
	byID    map[string]*Entry
	byName  map[string]*Entry
}

type wireEntry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Select      *SelectConfig   `json:"select"`
	MultiSelect *SelectConfig   `json:"multi_select"`
	Status      *StatusConfig   `json:"status"`
	Relation    *RelationConfig `json:"relation"`
	Rollup      *RollupConfig   `json:"rollup"`
	Number      *NumberConfig   `json:"number"`
	Formula     *FormulaConfig  `json:"formula"`
	UniqueID    *UniqueIDConfig `json:"unique_id"`
}

// Parse builds a Registry from the "properties" object of a data source,
// keyed by property name. Entries are ordered by name for deterministic
// iteration.
func Parse(data []byte) (*Registry, error) {
	var wires map[string]wireEntry
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}

	names := make([]string, 0, len(wires))
	for name := range wires {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Registry{
		byID:   make(map[string]*Entry, len(wires)),
		byName: make(map[string]*Entry, len(wires)),
	}
	for _, name := range names {
		w := wires[name]
		e := &Entry{
			ID:          w.ID,
			Name:        w.Name,
			Type:        w.Type,
			Select:      w.Select,
			MultiSelect: w.MultiSelect,
			Status:      w.Status,
			Relation:    w.Relation,
			Rollup:      w.Rollup,
			Number:      w.Number,
			Formula:     w.Formula,
			UniqueID:    w.UniqueID,
		}
		if e.Name == "" {
			e.Name = name
		}
		if e.Type == "" {
			return nil, &InvariantError{Reason: fmt.Sprintf("property %q has no type", name)}
		}
		r.entries = append(r.entries, e)
		if e.ID != "" {
			r.byID[e.ID] = e
		}
		r.byName[strings.ToLower(e.Name)] = e
	}
	return r, nil
}

// Get resolves a property by id or by name. Id lookup is exact; name lookup
// is case-insensitive. A miss on both returns NotFoundError.
func (r *Registry) Get(nameOrID string) (*Entry, error) {
	if e, ok := r.byID[nameOrID]; ok {
		return e, nil
	}
	if e, ok := r.byName[strings.ToLower(nameOrID)]; ok {
		return e, nil
	}
	return nil, &NotFoundError{Key: nameOrID}
}

// Title returns the schema's single title property. The service guarantees
// exactly one; anything else fails with InvariantError.
func (r *Registry) Title() (*Entry, error) {
	var title *Entry
	for _, e := range r.entries {
		if e.Type != "title" {
			continue
		}
		if title != nil {
			return nil, &InvariantError{Reason: fmt.Sprintf("duplicate title properties %q and %q", title.Name, e.Name)}
		}
		title = e
	}
	if title == nil {
		return nil, &InvariantError{Reason: "no title property"}
	}
	return title, nil
}

// Entries returns all entries ordered by property name.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of properties in the schema.
func (r *Registry) Len() int {
	return len(r.entries)
}
