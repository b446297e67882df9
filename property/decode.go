package property

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nesalia-inc/better-notion-sub002/richtext"
	"github.com/nesalia-inc/better-notion-sub002/schema"
)

func decodeTitle(rv rawValue, entry *schema.Entry) (Value, error) {
	segs, err := decodeSegments(rv.payload("title"), entry)
	if err != nil {
		return nil, err
	}
	return Title{Segments: segs}, nil
}

func decodeText(rv rawValue, entry *schema.Entry) (Value, error) {
	segs, err := decodeSegments(rv.payload("rich_text"), entry)
	if err != nil {
		return nil, err
	}
	return Text{Segments: segs}, nil
}

func decodeSegments(payload json.RawMessage, entry *schema.Entry) ([]richtext.Segment, error) {
	if payload == nil {
		return nil, nil
	}
	segs, err := richtext.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", entry.Name, err)
	}
	return segs, nil
}

func decodeNumber(rv rawValue, entry *schema.Entry) (Value, error) {
	var n *float64
	if err := unmarshalPayload(rv, entry, &n); err != nil {
		return nil, err
	}
	return Number{Value: n}, nil
}

func decodeCheckbox(rv rawValue, entry *schema.Entry) (Value, error) {
	var b bool
	if err := unmarshalPayload(rv, entry, &b); err != nil {
		return nil, err
	}
	return Checkbox{Checked: b}, nil
}

func decodeSelect(rv rawValue, entry *schema.Entry) (Value, error) {
	var opt *schema.Option
	if err := unmarshalPayload(rv, entry, &opt); err != nil {
		return nil, err
	}
	return Select{Option: opt}, nil
}

func decodeMultiSelect(rv rawValue, entry *schema.Entry) (Value, error) {
	var opts []schema.Option
	if err := unmarshalPayload(rv, entry, &opts); err != nil {
		return nil, err
	}
	return MultiSelect{Options: opts}, nil
}

func decodeStatus(rv rawValue, entry *schema.Entry) (Value, error) {
	var opt *schema.Option
	if err := unmarshalPayload(rv, entry, &opt); err != nil {
		return nil, err
	}
	return Status{Option: opt}, nil
}

func decodeDate(rv rawValue, entry *schema.Entry) (Value, error) {
	var w *wireDate
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return Date{}, nil
	}
	r, err := w.native(entry)
	if err != nil {
		return nil, err
	}
	return Date{Value: r}, nil
}

func decodePeople(rv rawValue, entry *schema.Entry) (Value, error) {
	var ws []wireUser
	if err := unmarshalPayload(rv, entry, &ws); err != nil {
		return nil, err
	}
	users := make([]User, 0, len(ws))
	for _, w := range ws {
		users = append(users, w.native())
	}
	return People{Users: users}, nil
}

func decodeFiles(rv rawValue, entry *schema.Entry) (Value, error) {
	var ws []wireFile
	if err := unmarshalPayload(rv, entry, &ws); err != nil {
		return nil, err
	}
	files := make([]File, 0, len(ws))
	for _, w := range ws {
		f := File{Name: w.Name, Kind: w.Type}
		switch w.Type {
		case "file":
			if w.File == nil {
				return nil, &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: "file entry missing file payload"}
			}
			f.URL = w.File.URL
			if w.File.ExpiryTime != "" {
				t, err := time.Parse(time.RFC3339, w.File.ExpiryTime)
				if err != nil {
					return nil, &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: "expiry_time is not ISO-8601: " + w.File.ExpiryTime}
				}
				f.ExpiryTime = &t
			}
		case "external":
			if w.External == nil {
				return nil, &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: "external entry missing external payload"}
			}
			f.URL = w.External.URL
		default:
			return nil, &UnknownTypeError{Kind: "file variant", Value: w.Type}
		}
		files = append(files, f)
	}
	return Files{Files: files}, nil
}

func decodeRelation(rv rawValue, entry *schema.Entry) (Value, error) {
	var refs []struct {
		ID string `json:"id"`
	}
	if err := unmarshalPayload(rv, entry, &refs); err != nil {
		return nil, err
	}
	rel := Relation{}
	for _, r := range refs {
		rel.IDs = append(rel.IDs, r.ID)
	}
	// has_more sits beside the payload on the value object itself.
	if hm, ok := rv["has_more"]; ok {
		if err := json.Unmarshal(hm, &rel.HasMore); err != nil {
			return nil, malformed(entry, err)
		}
	}
	return rel, nil
}

func decodeURL(rv rawValue, entry *schema.Entry) (Value, error) {
	s, err := decodeNullableString(rv, entry)
	if err != nil {
		return nil, err
	}
	return URL{Value: s}, nil
}

func decodeEmail(rv rawValue, entry *schema.Entry) (Value, error) {
	s, err := decodeNullableString(rv, entry)
	if err != nil {
		return nil, err
	}
	return Email{Value: s}, nil
}

func decodePhone(rv rawValue, entry *schema.Entry) (Value, error) {
	s, err := decodeNullableString(rv, entry)
	if err != nil {
		return nil, err
	}
	return Phone{Value: s}, nil
}

func decodePlace(rv rawValue, entry *schema.Entry) (Value, error) {
	var w *struct {
		Name          string  `json:"name"`
		Address       string  `json:"address"`
		Latitude      float64 `json:"latitude"`
		Longitude     float64 `json:"longitude"`
		GooglePlaceID string  `json:"google_place_id"`
	}
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return Place{}, nil
	}
	return Place{
		Name:          w.Name,
		Address:       w.Address,
		Latitude:      w.Latitude,
		Longitude:     w.Longitude,
		GooglePlaceID: w.GooglePlaceID,
	}, nil
}

func decodeRollup(rv rawValue, entry *schema.Entry) (Value, error) {
	var w struct {
		Type     string            `json:"type"`
		Number   *float64          `json:"number"`
		Date     *wireDate         `json:"date"`
		Array    []json.RawMessage `json:"array"`
		Function string            `json:"function"`
	}
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}

	r := Rollup{Kind: w.Type, Function: w.Function}
	switch w.Type {
	case "number":
		r.Number = w.Number
	case "date":
		if w.Date != nil {
			d, err := w.Date.native(entry)
			if err != nil {
				return nil, err
			}
			r.Date = d
		}
	case "array":
		for i, elem := range w.Array {
			v, err := decodeNested(elem, entry)
			if err != nil {
				return nil, fmt.Errorf("rollup element %d: %w", i, err)
			}
			r.Array = append(r.Array, v)
		}
	case "incomplete", "unsupported":
		// Carried as-is; the service could not compute a value.
	default:
		return nil, &UnknownTypeError{Kind: "rollup result type", Value: w.Type}
	}
	return r, nil
}

// decodeNested decodes a property value object that carries its own type
// discriminator, as rollup array elements do.
func decodeNested(raw json.RawMessage, entry *schema.Entry) (Value, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, malformed(entry, err)
	}
	nested := &schema.Entry{ID: entry.ID, Name: entry.Name, Type: head.Type}
	return Decode(raw, nested)
}

func decodeFormula(rv rawValue, entry *schema.Entry) (Value, error) {
	var w struct {
		Type    string    `json:"type"`
		String  *string   `json:"string"`
		Number  *float64  `json:"number"`
		Boolean *bool     `json:"boolean"`
		Date    *wireDate `json:"date"`
	}
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}

	f := Formula{Kind: w.Type}
	switch w.Type {
	case "string":
		f.String = w.String
	case "number":
		f.Number = w.Number
	case "boolean":
		f.Boolean = w.Boolean
	case "date":
		if w.Date != nil {
			d, err := w.Date.native(entry)
			if err != nil {
				return nil, err
			}
			f.Date = d
		}
	default:
		return nil, &UnknownTypeError{Kind: "formula result type", Value: w.Type}
	}
	return f, nil
}

func decodeCreatedBy(rv rawValue, entry *schema.Entry) (Value, error) {
	var w wireUser
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}
	return CreatedBy{User: w.native()}, nil
}

func decodeLastEditedBy(rv rawValue, entry *schema.Entry) (Value, error) {
	var w wireUser
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}
	return LastEditedBy{User: w.native()}, nil
}

func decodeCreatedTime(rv rawValue, entry *schema.Entry) (Value, error) {
	t, err := decodeTimestamp(rv, entry)
	if err != nil {
		return nil, err
	}
	return CreatedTime{Time: t}, nil
}

func decodeLastEditedTime(rv rawValue, entry *schema.Entry) (Value, error) {
	t, err := decodeTimestamp(rv, entry)
	if err != nil {
		return nil, err
	}
	return LastEditedTime{Time: t}, nil
}

func decodeUniqueID(rv rawValue, entry *schema.Entry) (Value, error) {
	var w struct {
		Prefix *string `json:"prefix"`
		Number int64   `json:"number"`
	}
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}
	return UniqueID{Prefix: w.Prefix, Number: w.Number}, nil
}

func decodeVerification(rv rawValue, entry *schema.Entry) (Value, error) {
	var w struct {
		State      string    `json:"state"`
		VerifiedBy *wireUser `json:"verified_by"`
		Date       *wireDate `json:"date"`
	}
	if err := unmarshalPayload(rv, entry, &w); err != nil {
		return nil, err
	}

	v := Verification{State: w.State}
	if w.VerifiedBy != nil {
		u := w.VerifiedBy.native()
		v.VerifiedBy = &u
	}
	if w.Date != nil {
		d, err := w.Date.native(entry)
		if err != nil {
			return nil, err
		}
		v.Date = d
	}
	return v, nil
}

func decodeTimestamp(rv rawValue, entry *schema.Entry) (time.Time, error) {
	var s string
	if err := unmarshalPayload(rv, entry, &s); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: "not an ISO-8601 timestamp: " + s}
	}
	return t, nil
}

func decodeNullableString(rv rawValue, entry *schema.Entry) (string, error) {
	var s *string
	if err := unmarshalPayload(rv, entry, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}

func unmarshalPayload(rv rawValue, entry *schema.Entry, dest any) error {
	payload := rv.payload(entry.Type)
	if payload == nil {
		return &MalformedValueError{Property: entry.Name, Type: entry.Type, Reason: "value object has no " + entry.Type + " payload"}
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return malformed(entry, err)
	}
	return nil
}
