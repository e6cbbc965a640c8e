package ingest

import "testing"

func TestResolveContentType(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    ContentType
	}{
		{"csv", "a,b,c\n1,2,3", ContentTabular},
		{"tsv", "a\tb\n1\t2", ContentTabular},
		{"json object", `{"revenue": 100}`, ContentStructured},
		{"json array", `[{"x": 1}, {"x": 2}]`, ContentStructured},
		{"prose", "Quarterly revenue grew steadily across all regions.", ContentUnstructured},
		{"malformed json", `{"revenue": `, ContentUnstructured},
		{"empty", "   ", ContentUnstructured},
		{"single line with commas", "just, some, prose", ContentUnstructured},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveContentType(tc.content); got != tc.want {
				t.Fatalf("ResolveContentType(%q) = %s, want %s", tc.content, got, tc.want)
			}
		})
	}
}

func TestResolveDeclared(t *testing.T) {
	if got := ResolveDeclared("csv", "anything"); got != ContentTabular {
		t.Fatalf("declared csv = %s", got)
	}
	if got := ResolveDeclared("JSON", "x"); got != ContentStructured {
		t.Fatalf("declared json = %s", got)
	}
	if got := ResolveDeclared("text", "a,b\n1,2"); got != ContentUnstructured {
		t.Fatalf("declared text should win over detection, got %s", got)
	}
	if got := ResolveDeclared("auto", "a,b\n1,2"); got != ContentTabular {
		t.Fatalf("auto should detect tabular, got %s", got)
	}
	if got := ResolveDeclared("bogus", "plain text"); got != ContentUnstructured {
		t.Fatalf("unknown declared should fall back to detection, got %s", got)
	}
}
