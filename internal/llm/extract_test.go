package llm

import "testing"

func TestStripCodeFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"```json{\"a\":1}```\n", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	in := "Sure! Here is the analysis:\n{\"summary\":{\"overview\":\"x\"}}\nHope this helps {really}."
	want := "{\"summary\":{\"overview\":\"x\"}}\nHope this helps {really}"
	if got := ExtractJSONObject(in); got != want {
		t.Fatalf("ExtractJSONObject = %q, want %q", got, want)
	}
	if got := ExtractJSONObject("  no json here "); got != "no json here" {
		t.Fatalf("ExtractJSONObject without braces = %q", got)
	}
}
