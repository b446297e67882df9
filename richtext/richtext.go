// Package richtext models Notion inline rich content: ordered sequences of
// text, mention, and equation segments. Segments are immutable once built,
// either by Parse or by the constructor functions, and Marshal reproduces the
// exact wire shape they were parsed from.
package richtext

import "strings"

// Annotations represents the styling flags carried by every segment.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// DefaultAnnotations returns the unstyled annotation set.
func DefaultAnnotations() Annotations {
	return Annotations{Color: "default"}
}

// Segment is one atomic unit of rich content: a text run, a mention, or an
// equation. The concrete types are Text, Mention, and Equation.
type Segment interface {
	// PlainText returns the segment's display text.
	PlainText() string
	// Href returns the segment's link target, or nil when it has none.
	Href() *string
	// Style returns the segment's annotations.
	Style() Annotations

	segment()
}

// Text is a run of styled text with an optional link.
type Text struct {
	Content     string
	Link        *string
	Annotations Annotations
}

// NewText builds an unstyled text segment.
func NewText(content string) Text {
	return Text{Content: content, Annotations: DefaultAnnotations()}
}

// NewLink builds an unstyled text segment linking to url.
func NewLink(content, url string) Text {
	t := NewText(content)
	t.Link = &url
	return t
}

func (t Text) PlainText() string  { return t.Content }
func (t Text) Href() *string      { return t.Link }
func (t Text) Style() Annotations { return t.Annotations }
func (Text) segment()             {}

// Equation is an inline LaTeX expression. Its code annotation is always set.
type Equation struct {
	Expression  string
	Annotations Annotations
}

// NewEquation builds an equation segment from a LaTeX expression.
func NewEquation(expression string) Equation {
	a := DefaultAnnotations()
	a.Code = true
	return Equation{Expression: expression, Annotations: a}
}

func (e Equation) PlainText() string { return e.Expression }
func (Equation) Href() *string       { return nil }
func (e Equation) Style() Annotations {
	a := e.Annotations
	a.Code = true
	return a
}
func (Equation) segment() {}

// Mention is a reference to another object: a user, a date, a page, a
// database, a link preview, or a template placeholder. The display text of a
// mention is resolved by the service, so it is carried verbatim from the wire
// rather than recomputed.
type Mention struct {
	Target      MentionTarget
	Annotations Annotations
	Plain       string
	Link        *string
}

func (m Mention) PlainText() string  { return m.Plain }
func (m Mention) Href() *string      { return m.Link }
func (m Mention) Style() Annotations { return m.Annotations }
func (Mention) segment()             {}

// MentionTarget identifies what a mention points at. The concrete types are
// UserMention, DateMention, PageMention, DatabaseMention, LinkPreviewMention,
// and TemplateMention.
type MentionTarget interface {
	mentionTarget()
}

// UserMention references a workspace user by id.
type UserMention struct {
	UserID string
}

// DateMention references a date or date range. Start and End carry the wire
// date strings unparsed.
type DateMention struct {
	Start string
	End   *string
}

// PageMention references a page by id.
type PageMention struct {
	PageID string
}

// DatabaseMention references a database by id.
type DatabaseMention struct {
	DatabaseID string
}

// LinkPreviewMention references an embedded link preview.
type LinkPreviewMention struct {
	URL string
}

// TemplateKind selects which placeholder a template mention expands to.
type TemplateKind string

const (
	// TemplateDateToday expands to the date a template is instantiated.
	TemplateDateToday TemplateKind = "today"
	// TemplateDateNow expands to the date and time a template is instantiated.
	TemplateDateNow TemplateKind = "now"
	// TemplateUserMe expands to the user instantiating a template.
	TemplateUserMe TemplateKind = "me"
)

// TemplateMention is a placeholder that the service resolves when a template
// is used.
type TemplateMention struct {
	Kind TemplateKind
}

func (UserMention) mentionTarget()        {}
func (DateMention) mentionTarget()        {}
func (PageMention) mentionTarget()        {}
func (DatabaseMention) mentionTarget()    {}
func (LinkPreviewMention) mentionTarget() {}
func (TemplateMention) mentionTarget()    {}

// PlainText concatenates the display text of segments in order.
func PlainText(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.PlainText())
	}
	return sb.String()
}
