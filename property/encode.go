package property

import (
	"encoding/json"

	"github.com/nesalia-inc/better-notion-sub002/richtext"
	"github.com/nesalia-inc/better-notion-sub002/schema"
)

func encodeTitle(v Value, entry *schema.Entry) (any, error) {
	return encodeSegments(v.(Title).Segments, entry)
}

func encodeText(v Value, entry *schema.Entry) (any, error) {
	return encodeSegments(v.(Text).Segments, entry)
}

func encodeSegments(segs []richtext.Segment, entry *schema.Entry) (any, error) {
	if segs == nil {
		segs = []richtext.Segment{}
	}
	b, err := richtext.Marshal(segs)
	if err != nil {
		return nil, malformed(entry, err)
	}
	return json.RawMessage(b), nil
}

func encodeNumber(v Value, _ *schema.Entry) (any, error) {
	return v.(Number).Value, nil
}

func encodeCheckbox(v Value, _ *schema.Entry) (any, error) {
	return v.(Checkbox).Checked, nil
}

func encodeSelect(v Value, _ *schema.Entry) (any, error) {
	return encodeOption(v.(Select).Option), nil
}

func encodeStatus(v Value, _ *schema.Entry) (any, error) {
	return encodeOption(v.(Status).Option), nil
}

func encodeMultiSelect(v Value, _ *schema.Entry) (any, error) {
	opts := v.(MultiSelect).Options
	out := make([]any, 0, len(opts))
	for i := range opts {
		out = append(out, encodeOption(&opts[i]))
	}
	return out, nil
}

// encodeOption re-emits an option by id and name, normalizing an empty name
// to an id-only reference. A nil option encodes as explicit null.
func encodeOption(opt *schema.Option) any {
	if opt == nil {
		return nil
	}
	m := map[string]any{}
	if opt.ID != "" {
		m["id"] = opt.ID
	}
	if opt.Name != "" {
		m["name"] = opt.Name
	}
	if opt.Color != "" {
		m["color"] = opt.Color
	}
	return m
}

func encodeDate(v Value, _ *schema.Entry) (any, error) {
	r := v.(Date).Value
	if r == nil {
		return nil, nil
	}
	return nativeDateWire(r), nil
}

func encodePeople(v Value, _ *schema.Entry) (any, error) {
	users := v.(People).Users
	out := make([]wireUser, 0, len(users))
	for _, u := range users {
		out = append(out, wireUser{Object: "user", ID: u.ID})
	}
	return out, nil
}

func encodeFiles(v Value, _ *schema.Entry) (any, error) {
	files := v.(Files).Files
	out := make([]wireFile, 0, len(files))
	for _, f := range files {
		w := wireFile{Name: f.Name, Type: f.Kind}
		switch f.Kind {
		case "file":
			data := &wireFileData{URL: f.URL}
			if f.ExpiryTime != nil {
				data.ExpiryTime = f.ExpiryTime.Format(dateTimeLayout)
			}
			w.File = data
		default:
			w.Type = "external"
			w.External = &wireExternal{URL: f.URL}
		}
		out = append(out, w)
	}
	return out, nil
}

func encodeRelation(v Value, _ *schema.Entry) (any, error) {
	ids := v.(Relation).IDs
	out := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]string{"id": id})
	}
	return out, nil
}

func encodeURL(v Value, _ *schema.Entry) (any, error) {
	return nullableString(v.(URL).Value), nil
}

func encodeEmail(v Value, _ *schema.Entry) (any, error) {
	return nullableString(v.(Email).Value), nil
}

func encodePhone(v Value, _ *schema.Entry) (any, error) {
	return nullableString(v.(Phone).Value), nil
}

func encodePlace(v Value, _ *schema.Entry) (any, error) {
	p := v.(Place)
	m := map[string]any{
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
	}
	if p.Name != "" {
		m["name"] = p.Name
	}
	if p.Address != "" {
		m["address"] = p.Address
	}
	if p.GooglePlaceID != "" {
		m["google_place_id"] = p.GooglePlaceID
	}
	return m, nil
}

// nullableString maps the empty string to explicit JSON null. The API
// rejects "" where it expects either a value or null.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
