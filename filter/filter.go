// Package filter compiles keyword-style query conditions into the nested
// boolean filter tree the query endpoint expects. Compilation is local and
// validated against the data source schema: an operator that is illegal for
// a property's type fails here, before any request is made.
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Expression is one node of a compiled filter tree: a compound And/Or or a
// leaf condition.
type Expression interface {
	json.Marshaler

	expression()
}

// And combines expressions so that all must hold.
type And struct {
	Terms []Expression
}

// Or combines expressions so that at least one must hold.
type Or struct {
	Terms []Expression
}

// Condition is a leaf: one operator applied to one property.
type Condition struct {
	Property string
	Kind     string
	Operator string
	Operand  any
}

// TimestampCondition is a leaf against a page timestamp (created_time or
// last_edited_time) rather than a schema property.
type TimestampCondition struct {
	Timestamp string
	Operator  string
	Operand   any
}

// Nested is the inner condition a rollup operator wraps: an operator of the
// rolled-up property's type, without a property name of its own.
type Nested struct {
	Kind     string
	Operator string
	Operand  any
}

func (And) expression()                {}
func (Or) expression()                 {}
func (Condition) expression()          {}
func (TimestampCondition) expression() {}

// MarshalJSON emits {"and":[...]}.
func (a And) MarshalJSON() ([]byte, error) {
	return marshalGroup("and", a.Terms)
}

// MarshalJSON emits {"or":[...]}.
func (o Or) MarshalJSON() ([]byte, error) {
	return marshalGroup("or", o.Terms)
}

func marshalGroup(op string, terms []Expression) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{%q:[`, op)
	for i, t := range terms {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// MarshalJSON emits {"property":name,"<type>":{"<operator>":operand}}.
func (c Condition) MarshalJSON() ([]byte, error) {
	return marshalLeaf("property", c.Property, c.Kind, c.Operator, c.Operand)
}

// MarshalJSON emits {"timestamp":name,"<name>":{"<operator>":operand}}.
func (t TimestampCondition) MarshalJSON() ([]byte, error) {
	return marshalLeaf("timestamp", t.Timestamp, t.Timestamp, t.Operator, t.Operand)
}

// MarshalJSON emits {"<type>":{"<operator>":operand}}.
func (n Nested) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeClause(&buf, n.Kind, n.Operator, n.Operand); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalLeaf(keyField, keyValue, kind, operator string, operand any) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{%q:`, keyField)
	name, err := json.Marshal(keyValue)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	buf.WriteByte(',')
	if err := writeClause(&buf, kind, operator, operand); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeClause(buf *bytes.Buffer, kind, operator string, operand any) error {
	fmt.Fprintf(buf, `%q:{%q:`, kind, operator)
	b, err := json.Marshal(operand)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte('}')
	return nil
}
