package richtext

import (
	"encoding/json"
	"fmt"
)

// UnknownVariantError reports a discriminator value the parser does not
// recognize. Kind names the discriminator level ("rich text", "mention",
// "template mention") and Value is the offending type string.
type UnknownVariantError struct {
	Kind  string
	Value string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("richtext: unknown %s variant %q", e.Kind, e.Value)
}

// Wire shapes. The API never omits annotations, plain_text, or href on a
// segment; href and text.link are explicit null when absent.

type wireSegment struct {
	Type        string        `json:"type"`
	Text        *wireText     `json:"text,omitempty"`
	Mention     *wireMention  `json:"mention,omitempty"`
	Equation    *wireEquation `json:"equation,omitempty"`
	Annotations Annotations   `json:"annotations"`
	PlainText   string        `json:"plain_text"`
	Href        *string       `json:"href"`
}

type wireText struct {
	Content string    `json:"content"`
	Link    *wireLink `json:"link"`
}

type wireLink struct {
	URL string `json:"url"`
}

type wireEquation struct {
	Expression string `json:"expression"`
}

type wireMention struct {
	Type            string               `json:"type"`
	User            *wireUserRef         `json:"user,omitempty"`
	Page            *wireRef             `json:"page,omitempty"`
	Database        *wireRef             `json:"database,omitempty"`
	Date            *wireDate            `json:"date,omitempty"`
	LinkPreview     *wireLinkPreview     `json:"link_preview,omitempty"`
	TemplateMention *wireTemplateMention `json:"template_mention,omitempty"`
}

type wireUserRef struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

type wireRef struct {
	ID string `json:"id"`
}

type wireDate struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type wireLinkPreview struct {
	URL string `json:"url"`
}

type wireTemplateMention struct {
	Type string `json:"type"`
	Date string `json:"template_mention_date,omitempty"`
	User string `json:"template_mention_user,omitempty"`
}

// Parse decodes a JSON array of rich text objects into an ordered segment
// sequence. Order is meaningful and preserved. An unrecognized discriminator
// at any level fails with UnknownVariantError.
func Parse(data []byte) ([]Segment, error) {
	var wires []wireSegment
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("richtext: parse: %w", err)
	}

	segments := make([]Segment, 0, len(wires))
	for i, w := range wires {
		seg, err := parseSegment(w)
		if err != nil {
			return nil, fmt.Errorf("richtext: segment %d: %w", i, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func parseSegment(w wireSegment) (Segment, error) {
	switch w.Type {
	case "text":
		if w.Text == nil {
			return nil, fmt.Errorf("text segment missing text payload")
		}
		t := Text{Content: w.Text.Content, Annotations: w.Annotations}
		if w.Text.Link != nil {
			url := w.Text.Link.URL
			t.Link = &url
		}
		return t, nil

	case "equation":
		if w.Equation == nil {
			return nil, fmt.Errorf("equation segment missing equation payload")
		}
		a := w.Annotations
		a.Code = true
		return Equation{Expression: w.Equation.Expression, Annotations: a}, nil

	case "mention":
		if w.Mention == nil {
			return nil, fmt.Errorf("mention segment missing mention payload")
		}
		target, err := parseMention(*w.Mention)
		if err != nil {
			return nil, err
		}
		return Mention{
			Target:      target,
			Annotations: w.Annotations,
			Plain:       w.PlainText,
			Link:        w.Href,
		}, nil

	default:
		return nil, &UnknownVariantError{Kind: "rich text", Value: w.Type}
	}
}

func parseMention(w wireMention) (MentionTarget, error) {
	switch w.Type {
	case "user":
		if w.User == nil {
			return nil, fmt.Errorf("user mention missing user payload")
		}
		return UserMention{UserID: w.User.ID}, nil
	case "date":
		if w.Date == nil {
			return nil, fmt.Errorf("date mention missing date payload")
		}
		return DateMention{Start: w.Date.Start, End: w.Date.End}, nil
	case "page":
		if w.Page == nil {
			return nil, fmt.Errorf("page mention missing page payload")
		}
		return PageMention{PageID: w.Page.ID}, nil
	case "database":
		if w.Database == nil {
			return nil, fmt.Errorf("database mention missing database payload")
		}
		return DatabaseMention{DatabaseID: w.Database.ID}, nil
	case "link_preview":
		if w.LinkPreview == nil {
			return nil, fmt.Errorf("link preview mention missing payload")
		}
		return LinkPreviewMention{URL: w.LinkPreview.URL}, nil
	case "template_mention":
		if w.TemplateMention == nil {
			return nil, fmt.Errorf("template mention missing payload")
		}
		return parseTemplateMention(*w.TemplateMention)
	default:
		return nil, &UnknownVariantError{Kind: "mention", Value: w.Type}
	}
}

func parseTemplateMention(w wireTemplateMention) (MentionTarget, error) {
	switch w.Type {
	case "template_mention_date":
		switch w.Date {
		case "today":
			return TemplateMention{Kind: TemplateDateToday}, nil
		case "now":
			return TemplateMention{Kind: TemplateDateNow}, nil
		default:
			return nil, &UnknownVariantError{Kind: "template mention", Value: w.Date}
		}
	case "template_mention_user":
		if w.User != "me" {
			return nil, &UnknownVariantError{Kind: "template mention", Value: w.User}
		}
		return TemplateMention{Kind: TemplateUserMe}, nil
	default:
		return nil, &UnknownVariantError{Kind: "template mention", Value: w.Type}
	}
}

// Marshal encodes segments back to the JSON array the API expects. The
// output is the inverse of Parse: annotations are always complete and href is
// an explicit null when absent.
func Marshal(segments []Segment) ([]byte, error) {
	wires := make([]wireSegment, 0, len(segments))
	for i, s := range segments {
		w, err := marshalSegment(s)
		if err != nil {
			return nil, fmt.Errorf("richtext: segment %d: %w", i, err)
		}
		wires = append(wires, w)
	}
	return json.Marshal(wires)
}

func marshalSegment(s Segment) (wireSegment, error) {
	switch seg := s.(type) {
	case Text:
		wt := &wireText{Content: seg.Content}
		if seg.Link != nil {
			wt.Link = &wireLink{URL: *seg.Link}
		}
		return wireSegment{
			Type:        "text",
			Text:        wt,
			Annotations: seg.Annotations,
			PlainText:   seg.PlainText(),
			Href:        seg.Link,
		}, nil

	case Equation:
		return wireSegment{
			Type:        "equation",
			Equation:    &wireEquation{Expression: seg.Expression},
			Annotations: seg.Style(),
			PlainText:   seg.PlainText(),
		}, nil

	case Mention:
		wm, err := marshalMention(seg.Target)
		if err != nil {
			return wireSegment{}, err
		}
		return wireSegment{
			Type:        "mention",
			Mention:     wm,
			Annotations: seg.Annotations,
			PlainText:   seg.Plain,
			Href:        seg.Link,
		}, nil

	default:
		return wireSegment{}, fmt.Errorf("unsupported segment type %T", s)
	}
}

func marshalMention(t MentionTarget) (*wireMention, error) {
	switch m := t.(type) {
	case UserMention:
		return &wireMention{Type: "user", User: &wireUserRef{Object: "user", ID: m.UserID}}, nil
	case DateMention:
		return &wireMention{Type: "date", Date: &wireDate{Start: m.Start, End: m.End}}, nil
	case PageMention:
		return &wireMention{Type: "page", Page: &wireRef{ID: m.PageID}}, nil
	case DatabaseMention:
		return &wireMention{Type: "database", Database: &wireRef{ID: m.DatabaseID}}, nil
	case LinkPreviewMention:
		return &wireMention{Type: "link_preview", LinkPreview: &wireLinkPreview{URL: m.URL}}, nil
	case TemplateMention:
		tm := &wireTemplateMention{}
		switch m.Kind {
		case TemplateDateToday, TemplateDateNow:
			tm.Type = "template_mention_date"
			tm.Date = string(m.Kind)
		case TemplateUserMe:
			tm.Type = "template_mention_user"
			tm.User = string(m.Kind)
		default:
			return nil, &UnknownVariantError{Kind: "template mention", Value: string(m.Kind)}
		}
		return &wireMention{Type: "template_mention", TemplateMention: tm}, nil
	default:
		return nil, fmt.Errorf("unsupported mention target %T", t)
	}
}
