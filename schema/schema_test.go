package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
	"Name": {"id": "title", "name": "Name", "type": "title", "title": {}},
	"Status": {"id": "s%3A1", "name": "Status", "type": "select", "select": {"options": [
		{"id": "o1", "name": "Done", "color": "green"},
		{"id": "o2", "name": "In progress", "color": "blue"}
	]}},
	"Estimate": {"id": "e1", "name": "Estimate", "type": "number", "number": {"format": "number"}},
	"Epic": {"id": "r1", "name": "Epic", "type": "relation", "relation": {"data_source_id": "ds-2", "dual_property_id": "dp"}},
	"Total": {"id": "ru1", "name": "Total", "type": "rollup", "rollup": {"function": "sum", "relation_property_id": "r1", "rollup_property_id": "e9"}}
}`

func TestParseAndGet(t *testing.T) {
	r, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	// by name, case-insensitive
	e, err := r.Get("status")
	require.NoError(t, err)
	assert.Equal(t, "Status", e.Name)
	assert.Equal(t, "select", e.Type)
	require.NotNil(t, e.Select)
	require.Len(t, e.Select.Options, 2)
	assert.Equal(t, "Done", e.Select.Options[0].Name)

	// by id, case-sensitive
	byID, err := r.Get("s%3A1")
	require.NoError(t, err)
	assert.Same(t, e, byID)
	_, err = r.Get("S%3A1")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "S%3A1", nf.Key)

	rel, err := r.Get("Epic")
	require.NoError(t, err)
	require.NotNil(t, rel.Relation)
	assert.Equal(t, "ds-2", rel.Relation.DataSourceID)

	roll, err := r.Get("Total")
	require.NoError(t, err)
	require.NotNil(t, roll.Rollup)
	assert.Equal(t, "sum", roll.Rollup.Function)
	assert.Equal(t, "r1", roll.Rollup.RelationPropertyID)
}

func TestGetMiss(t *testing.T) {
	r, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	_, err = r.Get("Priority")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Priority", nf.Key)
}

func TestTitle(t *testing.T) {
	r, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	title, err := r.Title()
	require.NoError(t, err)
	assert.Equal(t, "Name", title.Name)
}

func TestTitleMissing(t *testing.T) {
	r, err := Parse([]byte(`{"Status": {"id": "s1", "type": "select", "select": {"options": []}}}`))
	require.NoError(t, err)

	_, err = r.Title()
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestTitleDuplicate(t *testing.T) {
	r, err := Parse([]byte(`{
		"A": {"id": "t1", "type": "title", "title": {}},
		"B": {"id": "t2", "type": "title", "title": {}}
	}`))
	require.NoError(t, err)

	_, err = r.Title()
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestNameFallsBackToMapKey(t *testing.T) {
	r, err := Parse([]byte(`{"Due date": {"id": "d1", "type": "date", "date": {}}}`))
	require.NoError(t, err)

	e, err := r.Get("due DATE")
	require.NoError(t, err)
	assert.Equal(t, "Due date", e.Name)
}

func TestEntriesOrdered(t *testing.T) {
	r, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	names := make([]string, 0, r.Len())
	for _, e := range r.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Epic", "Estimate", "Name", "Status", "Total"}, names)
}

func TestParseRejectsMissingType(t *testing.T) {
	_, err := Parse([]byte(`{"X": {"id": "x1"}}`))
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}
