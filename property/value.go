// Package property converts between raw JSON property values and typed
// native values. A value's shape is always derived from the pair of raw JSON
// and schema entry, never from the raw JSON alone: formula and rollup values
// carry nested result types, and several types share payload shapes.
//
// Decode through this package is the only sanctioned path to a property's
// value; callers that need the untouched payload can keep the raw message
// they passed in, at the price of every invariant documented here.
package property

import (
	"time"

	"github.com/nesalia-inc/better-notion-sub002/richtext"
	"github.com/nesalia-inc/better-notion-sub002/schema"
)

// Value is a typed property value tagged with the same type string as its
// schema entry.
type Value interface {
	// Type returns the wire type string of the value.
	Type() string

	value()
}

// Title is the page title, a rich text sequence.
type Title struct {
	Segments []richtext.Segment
}

// Text is a rich_text property value.
type Text struct {
	Segments []richtext.Segment
}

// Number is a number property value. Value is nil when the property is
// empty.
type Number struct {
	Value *float64
}

// Checkbox is a checkbox property value.
type Checkbox struct {
	Checked bool
}

// Select is a select property value. Option is nil when nothing is
// selected.
type Select struct {
	Option *schema.Option
}

// MultiSelect is a multi-select property value.
type MultiSelect struct {
	Options []schema.Option
}

// Status is a status property value. Option is nil when unset.
type Status struct {
	Option *schema.Option
}

// DateTime is an ISO-8601 instant that remembers whether the wire value
// carried a time component. Date-only and date-time values are distinct and
// re-serialize in their original precision.
type DateTime struct {
	Time    time.Time
	HasTime bool
}

// DateRange is a date property payload: a start, an optional end, and an
// optional named time zone.
type DateRange struct {
	Start    DateTime
	End      *DateTime
	TimeZone *string
}

// Date is a date property value. Value is nil when the property is empty.
type Date struct {
	Value *DateRange
}

// User is a workspace user reference as it appears inside property values.
type User struct {
	ID        string
	Name      string
	AvatarURL *string
}

// People is a people property value.
type People struct {
	Users []User
}

// File is one attachment of a files property. Kind is "file" for uploads
// (with an expiring URL) or "external".
type File struct {
	Name       string
	Kind       string
	URL        string
	ExpiryTime *time.Time
}

// Files is a files property value.
type Files struct {
	Files []File
}

// Relation is a relation property value: the ids of related pages. HasMore
// reports that the service truncated the list.
type Relation struct {
	IDs     []string
	HasMore bool
}

// Rollup is the computed aggregate of a relation's property. Kind selects
// which of the result fields is set; Array elements are themselves typed
// values.
type Rollup struct {
	Kind     string
	Number   *float64
	Date     *DateRange
	Array    []Value
	Function string
}

// Formula is the computed result of a formula property. Kind selects which
// of the result fields is set.
type Formula struct {
	Kind    string
	String  *string
	Number  *float64
	Boolean *bool
	Date    *DateRange
}

// CreatedBy records who created the page.
type CreatedBy struct {
	User User
}

// CreatedTime records when the page was created.
type CreatedTime struct {
	Time time.Time
}

// LastEditedBy records who last edited the page.
type LastEditedBy struct {
	User User
}

// LastEditedTime records when the page was last edited.
type LastEditedTime struct {
	Time time.Time
}

// URL is a url property value. Empty means unset.
type URL struct {
	Value string
}

// Email is an email property value. Empty means unset.
type Email struct {
	Value string
}

// Phone is a phone_number property value. Empty means unset.
type Phone struct {
	Value string
}

// UniqueID is the auto-incremented identifier the service assigns per data
// source, with an optional prefix.
type UniqueID struct {
	Prefix *string
	Number int64
}

// Verification records the verification state of a page.
type Verification struct {
	State      string
	VerifiedBy *User
	Date       *DateRange
}

// Place is a place property value: a geographic point with optional
// human-readable context.
type Place struct {
	Name          string
	Address       string
	Latitude      float64
	Longitude     float64
	GooglePlaceID string
}

func (Title) Type() string          { return "title" }
func (Text) Type() string           { return "rich_text" }
func (Number) Type() string         { return "number" }
func (Checkbox) Type() string       { return "checkbox" }
func (Select) Type() string         { return "select" }
func (MultiSelect) Type() string    { return "multi_select" }
func (Status) Type() string         { return "status" }
func (Date) Type() string           { return "date" }
func (People) Type() string         { return "people" }
func (Files) Type() string          { return "files" }
func (Relation) Type() string       { return "relation" }
func (Rollup) Type() string         { return "rollup" }
func (Formula) Type() string        { return "formula" }
func (CreatedBy) Type() string      { return "created_by" }
func (CreatedTime) Type() string    { return "created_time" }
func (LastEditedBy) Type() string   { return "last_edited_by" }
func (LastEditedTime) Type() string { return "last_edited_time" }
func (URL) Type() string            { return "url" }
func (Email) Type() string          { return "email" }
func (Phone) Type() string          { return "phone_number" }
func (UniqueID) Type() string       { return "unique_id" }
func (Verification) Type() string   { return "verification" }
func (Place) Type() string          { return "place" }

func (Title) value()          {}
func (Text) value()           {}
func (Number) value()         {}
func (Checkbox) value()       {}
func (Select) value()         {}
func (MultiSelect) value()    {}
func (Status) value()         {}
func (Date) value()           {}
func (People) value()         {}
func (Files) value()          {}
func (Relation) value()       {}
func (Rollup) value()         {}
func (Formula) value()        {}
func (CreatedBy) value()      {}
func (CreatedTime) value()    {}
func (LastEditedBy) value()   {}
func (LastEditedTime) value() {}
func (URL) value()            {}
func (Email) value()          {}
func (Phone) value()          {}
func (UniqueID) value()       {}
func (Verification) value()   {}
func (Place) value()          {}
