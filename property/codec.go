package property

import (
	"encoding/json"
	"fmt"

	"github.com/nesalia-inc/better-notion-sub002/schema"
)

// MalformedValueError reports a raw value that does not parse under its
// declared type. Nothing is coerced silently.
type MalformedValueError struct {
	Property string
	Type     string
	Reason   string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("property: malformed %s value for %q: %s", e.Type, e.Property, e.Reason)
}

// ReadOnlyPropertyError reports an attempted write to a property type the
// service computes itself. It is raised locally, before any request is made.
type ReadOnlyPropertyError struct {
	Property string
	Type     string
}

func (e *ReadOnlyPropertyError) Error() string {
	return fmt.Sprintf("property: %q has read-only type %q and cannot be written", e.Property, e.Type)
}

// UnknownTypeError reports a type discriminator outside the documented set.
// Kind names the discriminator level ("property type", "formula result
// type", "rollup result type").
type UnknownTypeError struct {
	Kind  string
	Value string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("property: unknown %s %q", e.Kind, e.Value)
}

// converter is one row of the codec registry: how a property type decodes,
// how it encodes, and whether the service owns its value. The registry is
// built once and never mutated; it is configuration, not state.
type converter struct {
	decode   func(rv rawValue, entry *schema.Entry) (Value, error)
	encode   func(v Value, entry *schema.Entry) (any, error)
	readOnly bool
}

type rawValue map[string]json.RawMessage

func (rv rawValue) payload(typ string) json.RawMessage {
	p, ok := rv[typ]
	if !ok {
		return nil
	}
	return p
}

var converters map[string]converter

func init() {
	converters = map[string]converter{
		"title":            {decode: decodeTitle, encode: encodeTitle},
		"rich_text":        {decode: decodeText, encode: encodeText},
		"number":           {decode: decodeNumber, encode: encodeNumber},
		"checkbox":         {decode: decodeCheckbox, encode: encodeCheckbox},
		"select":           {decode: decodeSelect, encode: encodeSelect},
		"multi_select":     {decode: decodeMultiSelect, encode: encodeMultiSelect},
		"status":           {decode: decodeStatus, encode: encodeStatus},
		"date":             {decode: decodeDate, encode: encodeDate},
		"people":           {decode: decodePeople, encode: encodePeople},
		"files":            {decode: decodeFiles, encode: encodeFiles},
		"relation":         {decode: decodeRelation, encode: encodeRelation},
		"url":              {decode: decodeURL, encode: encodeURL},
		"email":            {decode: decodeEmail, encode: encodeEmail},
		"phone_number":     {decode: decodePhone, encode: encodePhone},
		"place":            {decode: decodePlace, encode: encodePlace},
		"rollup":           {decode: decodeRollup, readOnly: true},
		"formula":          {decode: decodeFormula, readOnly: true},
		"created_by":       {decode: decodeCreatedBy, readOnly: true},
		"created_time":     {decode: decodeCreatedTime, readOnly: true},
		"last_edited_by":   {decode: decodeLastEditedBy, readOnly: true},
		"last_edited_time": {decode: decodeLastEditedTime, readOnly: true},
		"unique_id":        {decode: decodeUniqueID, readOnly: true},
		"verification":     {decode: decodeVerification, readOnly: true},
	}
}

// ReadOnly reports whether typ is computed by the service and rejected on
// every write path.
func ReadOnly(typ string) bool {
	c, ok := converters[typ]
	return ok && c.readOnly
}

// Decode converts a raw property value object, as returned inside a page's
// "properties" map, into a typed Value. The schema entry supplies the type;
// the raw JSON alone is never trusted to identify it.
func Decode(raw json.RawMessage, entry *schema.Entry) (Value, error) {
	conv, ok := converters[entry.Type]
	if !ok {
		return nil, &UnknownTypeError{Kind: "property type", Value: entry.Type}
	}

	var rv rawValue
	if err := json.Unmarshal(raw, &rv); err != nil {
		return nil, &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: err.Error()}
	}
	return conv.decode(rv, entry)
}

// Encode converts a typed Value into the write payload {"<type>": ...} the
// API expects. Read-only types fail with ReadOnlyPropertyError before any
// network activity; empty strings become explicit nulls, never "".
func Encode(v Value, entry *schema.Entry) (json.RawMessage, error) {
	conv, ok := converters[entry.Type]
	if !ok {
		return nil, &UnknownTypeError{Kind: "property type", Value: entry.Type}
	}
	if conv.readOnly {
		return nil, &ReadOnlyPropertyError{Property: entry.Name, Type: entry.Type}
	}
	if v.Type() != entry.Type {
		return nil, &MalformedValueError{
			Property: entry.Name,
			Type:     entry.Type,
			Reason:   fmt.Sprintf("value has type %q", v.Type()),
		}
	}

	payload, err := conv.encode(v, entry)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{entry.Type: payload})
}

// Wire shapes shared by several types.

type wireUser struct {
	Object    string  `json:"object"`
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type wireDate struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

type wireFileData struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

type wireExternal struct {
	URL string `json:"url"`
}

type wireFile struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	File     *wireFileData `json:"file,omitempty"`
	External *wireExternal `json:"external,omitempty"`
}

func malformed(entry *schema.Entry, err error) error {
	return &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: err.Error()}
}

func (u wireUser) native() User {
	return User{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

func (d wireDate) native(entry *schema.Entry) (*DateRange, error) {
	return parseDateRange(d.Start, d.End, d.TimeZone, entry.Name)
}

func nativeDateWire(r *DateRange) *wireDate {
	if r == nil {
		return nil
	}
	w := &wireDate{Start: r.Start.String(), TimeZone: r.TimeZone}
	if r.End != nil {
		end := r.End.String()
		w.End = &end
	}
	return w
}
