package richtext

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const equationExample = `[
	{"type":"text","text":{"content":"E=","link":null},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"E=","href":null},
	{"type":"equation","equation":{"expression":"mc^2"},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":true,"color":"default"},"plain_text":"mc^2","href":null}
]`

func TestParsePlainText(t *testing.T) {
	segments, err := Parse([]byte(equationExample))
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, "E=mc^2", PlainText(segments))

	text, ok := segments[0].(Text)
	require.True(t, ok)
	assert.Equal(t, "E=", text.Content)
	assert.Nil(t, text.Link)

	eq, ok := segments[1].(Equation)
	require.True(t, ok)
	assert.Equal(t, "mc^2", eq.Expression)
	assert.True(t, eq.Style().Code)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			"text with link",
			`[{"type":"text","text":{"content":"docs","link":{"url":"https://example.com"}},"annotations":{"bold":true,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"blue"},"plain_text":"docs","href":"https://example.com"}]`,
		},
		{
			"user mention",
			`[{"type":"mention","mention":{"type":"user","user":{"object":"user","id":"d4b0c1f0-1111-4c6e-8f2a-aaaaaaaaaaaa"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"@Alice","href":null}]`,
		},
		{
			"date mention",
			`[{"type":"mention","mention":{"type":"date","date":{"start":"2024-05-01","end":null}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"2024-05-01","href":null}]`,
		},
		{
			"page mention",
			`[{"type":"mention","mention":{"type":"page","page":{"id":"59833787-2cf9-4fdf-8782-e53db20768a5"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"Roadmap","href":"https://www.notion.so/598337872cf94fdf8782e53db20768a5"}]`,
		},
		{
			"database mention",
			`[{"type":"mention","mention":{"type":"database","database":{"id":"a1d8501e-1ac1-43e9-a6bd-ea9fe6c8822b"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"Tasks","href":null}]`,
		},
		{
			"link preview mention",
			`[{"type":"mention","mention":{"type":"link_preview","link_preview":{"url":"https://github.com/example/repo/pull/1"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"https://github.com/example/repo/pull/1","href":"https://github.com/example/repo/pull/1"}]`,
		},
		{
			"template mention date",
			`[{"type":"mention","mention":{"type":"template_mention","template_mention":{"type":"template_mention_date","template_mention_date":"today"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"@Today","href":null}]`,
		},
		{
			"template mention user",
			`[{"type":"mention","mention":{"type":"template_mention","template_mention":{"type":"template_mention_user","template_mention_user":"me"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"@Me","href":null}]`,
		},
		{"equation", equationExample},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			segments, err := Parse([]byte(tc.json))
			require.NoError(t, err)

			out, err := Marshal(segments)
			require.NoError(t, err)
			assert.JSONEq(t, tc.json, string(out))

			// parse(serialize(x)) == x
			again, err := Parse(out)
			require.NoError(t, err)
			assert.Equal(t, segments, again)
		})
	}
}

func TestParseUnknownVariants(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind string
	}{
		{
			"segment level",
			`[{"type":"video","annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"","href":null}]`,
			"rich text",
		},
		{
			"mention level",
			`[{"type":"mention","mention":{"type":"channel"},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"","href":null}]`,
			"mention",
		},
		{
			"template mention level",
			`[{"type":"mention","mention":{"type":"template_mention","template_mention":{"type":"template_mention_date","template_mention_date":"yesterday"}},"annotations":{"bold":false,"italic":false,"strikethrough":false,"underline":false,"code":false,"color":"default"},"plain_text":"","href":null}]`,
			"template mention",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.json))
			var unknown *UnknownVariantError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tc.kind, unknown.Kind)
		})
	}
}

func TestBuilders(t *testing.T) {
	segments := []Segment{
		NewText("see "),
		NewLink("the docs", "https://example.com"),
		NewEquation("a^2+b^2"),
	}

	assert.Equal(t, "see the docsa^2+b^2", PlainText(segments))

	out, err := Marshal(segments)
	require.NoError(t, err)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	require.Len(t, raw, 3)

	// href must be present (explicit null) on every segment
	for i, seg := range raw {
		_, ok := seg["href"]
		assert.True(t, ok, "segment %d missing href", i)
		_, ok = seg["annotations"]
		assert.True(t, ok, "segment %d missing annotations", i)
	}

	assert.JSONEq(t, `{"content":"see ","link":null}`, string(raw[0]["text"]))
	assert.JSONEq(t, `"https://example.com"`, string(raw[1]["href"]))
}

func TestEquationCodeAlwaysSet(t *testing.T) {
	// Even a hand-built equation with the flag cleared serializes with
	// code set.
	eq := Equation{Expression: "x", Annotations: DefaultAnnotations()}
	out, err := Marshal([]Segment{eq})
	require.NoError(t, err)

	segments, err := Parse(out)
	require.NoError(t, err)
	assert.True(t, segments[0].Style().Code)
}

func TestParseNotAnArray(t *testing.T) {
	_, err := Parse([]byte(`{"type":"text"}`))
	require.Error(t, err)
	var unknown *UnknownVariantError
	assert.False(t, errors.As(err, &unknown))
}
