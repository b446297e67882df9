package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nesalia-inc/better-notion-sub002/schema"
)

// InvalidOperatorError reports an operator applied to a property whose
// schema type does not admit it.
type InvalidOperatorError struct {
	Property string
	Operator string
	Type     string
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("filter: operator %q is not valid for property %q of type %q", e.Operator, e.Property, e.Type)
}

// Conditions is a flat keyword-style condition set. Keys are
// "<property>" or "<property>__<operator>"; the reserved keys "all_of" and
// "any_of" carry lists of nested Conditions. Multiple keys at one level
// combine with implicit AND.
type Conditions map[string]any

// Compiler translates Conditions into a wire filter tree, resolving and
// validating every property against a schema registry.
type Compiler struct {
	registry *schema.Registry
}

// NewCompiler builds a compiler over a parsed schema.
func NewCompiler(registry *schema.Registry) *Compiler {
	return &Compiler{registry: registry}
}

// Compile builds the filter tree for conds. Condition keys are processed in
// sorted order at every level, so the same input always compiles to an
// identical tree. An empty condition set compiles to nil (no filter).
func (c *Compiler) Compile(conds Conditions) (Expression, error) {
	exprs, err := c.compileGroup(conds)
	if err != nil {
		return nil, err
	}
	switch len(exprs) {
	case 0:
		return nil, nil
	case 1:
		return exprs[0], nil
	default:
		return And{Terms: exprs}, nil
	}
}

// CompileJSON compiles conds and serializes the tree. Same input, same
// bytes. An empty condition set yields nil.
func (c *Compiler) CompileJSON(conds Conditions) ([]byte, error) {
	expr, err := c.Compile(conds)
	if err != nil || expr == nil {
		return nil, err
	}
	return expr.MarshalJSON()
}

func (c *Compiler) compileGroup(conds Conditions) ([]Expression, error) {
	keys := make([]string, 0, len(conds))
	for k := range conds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exprs := make([]Expression, 0, len(keys))
	for _, key := range keys {
		switch key {
		case "all_of":
			terms, err := c.compileList(key, conds[key])
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, And{Terms: terms})
		case "any_of":
			terms, err := c.compileList(key, conds[key])
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, Or{Terms: terms})
		default:
			expr, err := c.compileCondition(key, conds[key])
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
	}
	return exprs, nil
}

func (c *Compiler) compileList(key string, v any) ([]Expression, error) {
	groups, err := asConditionList(v)
	if err != nil {
		return nil, fmt.Errorf("filter: %s: %w", key, err)
	}
	terms := make([]Expression, 0, len(groups))
	for _, group := range groups {
		expr, err := c.Compile(group)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			terms = append(terms, expr)
		}
	}
	return terms, nil
}

func asConditionList(v any) ([]Conditions, error) {
	switch list := v.(type) {
	case []Conditions:
		return list, nil
	case []map[string]any:
		out := make([]Conditions, 0, len(list))
		for _, m := range list {
			out = append(out, Conditions(m))
		}
		return out, nil
	case []any:
		out := make([]Conditions, 0, len(list))
		for _, e := range list {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected a condition map, got %T", e)
			}
			out = append(out, Conditions(m))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of condition maps, got %T", v)
	}
}

func (c *Compiler) compileCondition(key string, operand any) (Expression, error) {
	name, op := splitKey(key)

	entry, err := c.registry.Get(name)
	if err != nil {
		var nf *schema.NotFoundError
		if errors.As(err, &nf) && (name == "created_time" || name == "last_edited_time") {
			return compileTimestamp(name, op, operand)
		}
		return nil, err
	}

	if err := checkOperator(entry.Name, entry.Type, op); err != nil {
		return nil, err
	}

	if entry.Type == "rollup" {
		nested, err := compileNested(entry.Name, operand)
		if err != nil {
			return nil, err
		}
		return Condition{Property: entry.Name, Kind: "rollup", Operator: op, Operand: nested}, nil
	}

	return Condition{
		Property: entry.Name,
		Kind:     entry.Type,
		Operator: op,
		Operand:  normalizeOperand(op, operand),
	}, nil
}

// splitKey separates the property name from the operator suffix. A missing
// or unrecognized suffix means equals, so property names containing "__"
// still resolve.
func splitKey(key string) (name, op string) {
	if idx := strings.LastIndex(key, "__"); idx >= 0 {
		if canonical, ok := suffixOperators[key[idx+2:]]; ok {
			return key[:idx], canonical
		}
	}
	return key, "equals"
}

func checkOperator(property, schemaType, op string) error {
	set, ok := legalOperators[schemaType]
	if !ok || !set[op] {
		return &InvalidOperatorError{Property: property, Operator: op, Type: schemaType}
	}
	return nil
}

func compileTimestamp(timestamp, op string, operand any) (Expression, error) {
	if !dateOperators[op] {
		return nil, &InvalidOperatorError{Property: timestamp, Operator: op, Type: timestamp}
	}
	return TimestampCondition{
		Timestamp: timestamp,
		Operator:  op,
		Operand:   normalizeOperand(op, operand),
	}, nil
}

// compileNested validates the inner condition a rollup operator wraps. The
// rolled-up property lives in another data source, so the caller states its
// type in the key: {"<type>__<operator>": operand}.
func compileNested(property string, operand any) (Nested, error) {
	m, ok := operand.(map[string]any)
	if !ok {
		if c, isConds := operand.(Conditions); isConds {
			m = c
		} else {
			return Nested{}, fmt.Errorf("filter: rollup condition on %q needs a nested {\"<type>__<operator>\": operand} map, got %T", property, operand)
		}
	}
	if len(m) != 1 {
		return Nested{}, fmt.Errorf("filter: rollup condition on %q needs exactly one nested condition, got %d", property, len(m))
	}

	for key, inner := range m {
		idx := strings.LastIndex(key, "__")
		if idx < 0 {
			return Nested{}, fmt.Errorf("filter: rollup condition on %q: nested key %q has no operator suffix", property, key)
		}
		kind := key[:idx]
		op, known := suffixOperators[key[idx+2:]]
		if !known {
			return Nested{}, &InvalidOperatorError{Property: property, Operator: key[idx+2:], Type: kind}
		}
		if err := checkOperator(property, kind, op); err != nil {
			return Nested{}, err
		}
		return Nested{Kind: kind, Operator: op, Operand: normalizeOperand(op, inner)}, nil
	}
	return Nested{}, nil
}

// normalizeOperand rewrites operand-free operators to the literal the wire
// format requires, whatever the caller passed: emptiness checks carry true,
// relative date ranges carry an empty object.
func normalizeOperand(op string, operand any) any {
	switch op {
	case "is_empty", "is_not_empty":
		return true
	case "past_week", "past_month", "past_year",
		"this_week", "next_week", "next_month", "next_year":
		return map[string]any{}
	default:
		return operand
	}
}
