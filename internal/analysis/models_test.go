package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentContext_LenientWordCount(t *testing.T) {
	cases := map[string]*int{
		`{"wordCount": 1200}`:    intp(1200),
		`{"wordCount": 1200.4}`:  intp(1200),
		`{"wordCount": "2,500"}`: intp(2500),
		`{"wordCount": "about"}`: nil,
		`{"wordCount": null}`:    nil,
		`{"type": "Assignment"}`: nil,
	}
	for in, want := range cases {
		var dc DocumentContext
		require.NoError(t, json.Unmarshal([]byte(in), &dc), in)
		require.Equal(t, want, dc.WordCount, in)
	}

	var dc DocumentContext
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Report","keyTopics":["a"],"wordCount":10}`), &dc))
	require.Equal(t, "Report", dc.Type)
	require.Equal(t, StringList{"a"}, dc.KeyTopics)
}

func TestStringList_Lenient(t *testing.T) {
	var v struct {
		L StringList `json:"l"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"l": "single"}`), &v))
	require.Equal(t, StringList{"single"}, v.L)

	require.NoError(t, json.Unmarshal([]byte(`{"l": ["a", 2, {"k": "v"}]}`), &v))
	require.Equal(t, StringList{"a", "2", `{"k":"v"}`}, v.L)

	require.NoError(t, json.Unmarshal([]byte(`{"l": 5}`), &v))
	require.Equal(t, StringList{"5"}, v.L)

	require.NoError(t, json.Unmarshal([]byte(`{"l": ""}`), &v))
	require.Empty(t, v.L)
}

func TestText_AcceptsAnyValue(t *testing.T) {
	cases := map[string]Text{
		`"plain"`:         "plain",
		`["a", "b", ""]`:  "a; b",
		`42`:              "42",
		`true`:            "true",
		`{"k": "v"}`:      `{"k":"v"}`,
		`null`:            "",
		`[["x", 1], "y"]`: "x; 1; y",
	}
	for in, want := range cases {
		var got Text
		require.NoError(t, json.Unmarshal([]byte(in), &got), in)
		require.Equal(t, want, got, in)
	}
}

func TestDocumentContextAndSummary_MistypedText(t *testing.T) {
	var dc DocumentContext
	require.NoError(t, json.Unmarshal([]byte(`{"type":["Essay","Report"],"subject":7,"level":null,"wordCount":"300"}`), &dc))
	require.Equal(t, "Essay; Report", dc.Type)
	require.Equal(t, "7", dc.Subject)
	require.Equal(t, "", dc.Level)
	require.Equal(t, intp(300), dc.WordCount)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(`{"overview":["first","second"],"keyPoints":"one"}`), &s))
	require.Equal(t, "first; second", s.Overview)
	require.Equal(t, StringList{"one"}, s.KeyPoints)
}

func TestDefinition_StringOrPair(t *testing.T) {
	var defs []Definition
	require.NoError(t, json.Unmarshal([]byte(`["GDP: output", {"term": "CPI", "definition": "prices"}]`), &defs))
	require.Len(t, defs, 2)
	require.Equal(t, "GDP: output", defs[0].String())
	require.Equal(t, "CPI: prices", defs[1].String())

	b, err := json.Marshal(defs)
	require.NoError(t, err)
	require.JSONEq(t, `["GDP: output", {"term": "CPI", "definition": "prices"}]`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`[{"term": ["A", "B"], "definition": 3}, 12]`), &defs))
	require.Equal(t, "A; B: 3", defs[0].String())
	require.Equal(t, "12", defs[1].String())
}

func intp(n int) *int { return &n }
