package filter

import "sort"

// Condition key suffixes map to the operator vocabulary of the remote query
// language. Both the shorthand and the canonical spelling are accepted; a
// key with no suffix means equals.
var suffixOperators = map[string]string{
	"equals":                   "equals",
	"eq":                       "equals",
	"does_not_equal":           "does_not_equal",
	"ne":                       "does_not_equal",
	"greater_than":             "greater_than",
	"gt":                       "greater_than",
	"greater_than_or_equal_to": "greater_than_or_equal_to",
	"gte":                      "greater_than_or_equal_to",
	"less_than":                "less_than",
	"lt":                       "less_than",
	"less_than_or_equal_to":    "less_than_or_equal_to",
	"lte":                      "less_than_or_equal_to",
	"contains":                 "contains",
	"does_not_contain":         "does_not_contain",
	"starts_with":              "starts_with",
	"ends_with":                "ends_with",
	"is_empty":                 "is_empty",
	"is_not_empty":             "is_not_empty",
	"before":                   "before",
	"after":                    "after",
	"on_or_before":             "on_or_before",
	"on_or_after":              "on_or_after",
	"past_week":                "past_week",
	"past_month":               "past_month",
	"past_year":                "past_year",
	"this_week":                "this_week",
	"next_week":                "next_week",
	"next_month":               "next_month",
	"next_year":                "next_year",
	"any":                      "any",
	"every":                    "every",
	"none":                     "none",
}

type operatorSet map[string]bool

func newSet(ops ...string) operatorSet {
	s := make(operatorSet, len(ops))
	for _, op := range ops {
		s[op] = true
	}
	return s
}

var (
	checkboxOperators = newSet("equals", "does_not_equal")
	numberOperators   = newSet(
		"equals", "does_not_equal",
		"greater_than", "greater_than_or_equal_to",
		"less_than", "less_than_or_equal_to",
		"is_empty", "is_not_empty",
	)
	textOperators = newSet(
		"equals", "does_not_equal",
		"contains", "does_not_contain",
		"starts_with", "ends_with",
		"is_empty", "is_not_empty",
	)
	dateOperators = newSet(
		"equals", "before", "after", "on_or_before", "on_or_after",
		"is_empty", "is_not_empty",
		"past_week", "past_month", "past_year",
		"this_week", "next_week", "next_month", "next_year",
	)
	selectOperators   = newSet("equals", "does_not_equal", "is_empty", "is_not_empty")
	containsOperators = newSet("contains", "does_not_contain", "is_empty", "is_not_empty")
	rollupOperators   = newSet("any", "every", "none")
)

// legalOperators is the boundary table: which operators each schema type
// admits. Types absent from the table cannot be filtered at all.
var legalOperators = map[string]operatorSet{
	"checkbox":         checkboxOperators,
	"number":           numberOperators,
	"unique_id":        numberOperators,
	"title":            textOperators,
	"rich_text":        textOperators,
	"url":              textOperators,
	"email":            textOperators,
	"phone_number":     textOperators,
	"date":             dateOperators,
	"created_time":     dateOperators,
	"last_edited_time": dateOperators,
	"select":           selectOperators,
	"status":           selectOperators,
	"multi_select":     containsOperators,
	"people":           containsOperators,
	"relation":         containsOperators,
	"files":            containsOperators,
	"created_by":       containsOperators,
	"last_edited_by":   containsOperators,
	"rollup":           rollupOperators,
}

// Operators returns the legal operators for a schema type, sorted, or nil
// when the type cannot be filtered.
func Operators(schemaType string) []string {
	set, ok := legalOperators[schemaType]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for op := range set {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}
