package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesalia-inc/better-notion-sub002/schema"
)

const testSchema = `{
	"Name": {"id": "title", "type": "title", "title": {}},
	"Notes": {"id": "n1", "type": "rich_text", "rich_text": {}},
	"Status": {"id": "s1", "type": "select", "select": {"options": [{"id": "o1", "name": "Done", "color": "green"}]}},
	"Stage": {"id": "st1", "type": "status", "status": {"options": []}},
	"Priority": {"id": "p1", "type": "number", "number": {"format": "number"}},
	"Done": {"id": "c1", "type": "checkbox", "checkbox": {}},
	"Tags": {"id": "t1", "type": "multi_select", "multi_select": {"options": []}},
	"Due date": {"id": "d1", "type": "date", "date": {}},
	"Owners": {"id": "ow1", "type": "people", "people": {}},
	"Epic": {"id": "r1", "type": "relation", "relation": {"data_source_id": "ds2"}},
	"Attachments": {"id": "f1", "type": "files", "files": {}},
	"Link": {"id": "u1", "type": "url", "url": {}},
	"Contact": {"id": "e1", "type": "email", "email": {}},
	"Phone": {"id": "ph1", "type": "phone_number", "phone_number": {}},
	"Task ID": {"id": "uid1", "type": "unique_id", "unique_id": {"prefix": "TASK"}},
	"Subtotals": {"id": "ru1", "type": "rollup", "rollup": {"function": "sum", "relation_property_id": "r1", "rollup_property_id": "x"}},
	"Score": {"id": "fo1", "type": "formula", "formula": {"expression": "1+1"}}
}`

func testCompiler(t *testing.T) *Compiler {
	t.Helper()
	reg, err := schema.Parse([]byte(testSchema))
	require.NoError(t, err)
	return NewCompiler(reg)
}

func TestCompileSelectEquals(t *testing.T) {
	c := testCompiler(t)

	out, err := c.CompileJSON(Conditions{"status": "Done"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"property":"Status","select":{"equals":"Done"}}`, string(out))
}

func TestCompileSelectContainsRejected(t *testing.T) {
	c := testCompiler(t)

	_, err := c.Compile(Conditions{"status__contains": "Done"})
	var invalid *InvalidOperatorError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Status", invalid.Property)
	assert.Equal(t, "contains", invalid.Operator)
	assert.Equal(t, "select", invalid.Type)
}

func TestCompileOperatorSuffixes(t *testing.T) {
	c := testCompiler(t)

	tests := []struct {
		conds Conditions
		want  string
	}{
		{Conditions{"priority__gte": 3}, `{"property":"Priority","number":{"greater_than_or_equal_to":3}}`},
		{Conditions{"priority__greater_than_or_equal_to": 3}, `{"property":"Priority","number":{"greater_than_or_equal_to":3}}`},
		{Conditions{"tags__contains": "api"}, `{"property":"Tags","multi_select":{"contains":"api"}}`},
		{Conditions{"due date__before": "2024-06-01"}, `{"property":"Due date","date":{"before":"2024-06-01"}}`},
		{Conditions{"due date__next_week": nil}, `{"property":"Due date","date":{"next_week":{}}}`},
		{Conditions{"notes__is_empty": nil}, `{"property":"Notes","rich_text":{"is_empty":true}}`},
		{Conditions{"done": false}, `{"property":"Done","checkbox":{"equals":false}}`},
		{Conditions{"task id__lt": 100}, `{"property":"Task ID","unique_id":{"less_than":100}}`},
		{Conditions{"epic__contains": "page-1"}, `{"property":"Epic","relation":{"contains":"page-1"}}`},
	}

	for _, tc := range tests {
		out, err := c.CompileJSON(tc.conds)
		require.NoError(t, err)
		assert.JSONEq(t, tc.want, string(out))
	}
}

func TestCompileImplicitAnd(t *testing.T) {
	c := testCompiler(t)

	out, err := c.CompileJSON(Conditions{"status": "Done", "priority__gt": 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"and":[
		{"property":"Priority","number":{"greater_than":2}},
		{"property":"Status","select":{"equals":"Done"}}
	]}`, string(out))
}

func TestCompileDeterministic(t *testing.T) {
	c := testCompiler(t)
	conds := Conditions{
		"status": "Done",
		"any_of": []Conditions{
			{"priority__gte": 3},
			{"tags__contains": "urgent", "done": true},
		},
	}

	first, err := c.CompileJSON(conds)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.CompileJSON(conds)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestCompileGrouping(t *testing.T) {
	c := testCompiler(t)

	out, err := c.CompileJSON(Conditions{
		"any_of": []Conditions{
			{"status": "Done"},
			{"all_of": []Conditions{
				{"priority__gte": 3},
				{"tags__contains": "urgent"},
			}},
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"or":[
		{"property":"Status","select":{"equals":"Done"}},
		{"and":[
			{"property":"Priority","number":{"greater_than_or_equal_to":3}},
			{"property":"Tags","multi_select":{"contains":"urgent"}}
		]}
	]}`, string(out))
}

func TestCompileTimestamp(t *testing.T) {
	c := testCompiler(t)

	out, err := c.CompileJSON(Conditions{"created_time__after": "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":"created_time","created_time":{"after":"2024-01-01T00:00:00Z"}}`, string(out))

	_, err = c.Compile(Conditions{"last_edited_time__contains": "x"})
	var invalid *InvalidOperatorError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "last_edited_time", invalid.Property)
}

func TestCompileRollup(t *testing.T) {
	c := testCompiler(t)

	out, err := c.CompileJSON(Conditions{
		"subtotals__any": map[string]any{"number__gt": 5},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"property":"Subtotals","rollup":{"any":{"number":{"greater_than":5}}}}`, string(out))

	// Nested operator must be legal for the stated type.
	_, err = c.Compile(Conditions{
		"subtotals__every": map[string]any{"checkbox__contains": true},
	})
	var invalid *InvalidOperatorError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "contains", invalid.Operator)
	assert.Equal(t, "checkbox", invalid.Type)

	// Rollup without a nested condition map fails.
	_, err = c.Compile(Conditions{"subtotals__any": 5})
	require.Error(t, err)
}

func TestCompileUnknownProperty(t *testing.T) {
	c := testCompiler(t)

	_, err := c.Compile(Conditions{"budget": 10})
	var nf *schema.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "budget", nf.Key)
}

func TestCompileUnfilterableType(t *testing.T) {
	c := testCompiler(t)

	_, err := c.Compile(Conditions{"score": 2})
	var invalid *InvalidOperatorError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Score", invalid.Property)
	assert.Equal(t, "formula", invalid.Type)
}

func TestCompileEmpty(t *testing.T) {
	c := testCompiler(t)

	out, err := c.CompileJSON(Conditions{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// TestOperatorBoundary walks the full (type, operator) table: every legal
// pair compiles, every other pair is rejected at compile time.
func TestOperatorBoundary(t *testing.T) {
	c := testCompiler(t)

	propertyForType := map[string]string{
		"title":        "name",
		"rich_text":    "notes",
		"select":       "status",
		"status":       "stage",
		"number":       "priority",
		"checkbox":     "done",
		"multi_select": "tags",
		"date":         "due date",
		"people":       "owners",
		"relation":     "epic",
		"files":        "attachments",
		"url":          "link",
		"email":        "contact",
		"phone_number": "phone",
		"unique_id":    "task id",
		"rollup":       "subtotals",
	}

	allOperators := make(map[string]bool)
	for _, canonical := range suffixOperators {
		allOperators[canonical] = true
	}

	for typ, prop := range propertyForType {
		legal := legalOperators[typ]
		require.NotNil(t, legal, typ)

		for op := range allOperators {
			conds := Conditions{prop + "__" + op: operandFor(typ, op)}
			_, err := c.Compile(conds)
			if legal[op] {
				assert.NoError(t, err, "%s %s should compile", typ, op)
			} else {
				var invalid *InvalidOperatorError
				assert.ErrorAs(t, err, &invalid, "%s %s should be rejected", typ, op)
			}
		}
	}
}

func operandFor(typ, op string) any {
	if typ == "rollup" {
		return map[string]any{"number__gt": 1}
	}
	switch typ {
	case "checkbox":
		return true
	case "number", "unique_id":
		return 1
	default:
		return "x"
	}
}
