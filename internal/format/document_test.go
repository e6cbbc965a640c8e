package format

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	markdown := strings.Join([]string{
		"# Business Intelligence Report",
		"**Generated for:** Dana",
		"",
		"## Key Metrics Summary",
		"- **revenue:** Sum = 220000.00",
		"- **cost:** Sum = 150000.00",
		"",
		"### Detail",
		"1. Review cost structure",
		"2. Monitor cash flow",
		"",
		"Closing paragraph here.",
	}, "\n")

	doc := ParseDocument(markdown)

	kinds := make([]BlockKind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		kinds[i] = b.Kind
	}
	want := []BlockKind{
		BlockHeading1, BlockParagraph,
		BlockHeading2, BlockList,
		BlockHeading3, BlockList,
		BlockParagraph,
	}
	if len(kinds) != len(want) {
		t.Fatalf("block kinds = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("block %d = %s, want %s (all: %v)", i, kinds[i], want[i], kinds)
		}
	}

	bullets := doc.Blocks[3]
	if bullets.Ordered || len(bullets.Items) != 2 {
		t.Fatalf("bullet list = %+v", bullets)
	}
	ordered := doc.Blocks[5]
	if !ordered.Ordered || ordered.Items[1] != "Monitor cash flow" {
		t.Fatalf("ordered list = %+v", ordered)
	}
}

func TestParseDocumentBlankLineSplitsLists(t *testing.T) {
	doc := ParseDocument("- one\n- two\n\n- three")
	lists := 0
	for _, b := range doc.Blocks {
		if b.Kind == BlockList {
			lists++
		}
	}
	if lists != 2 {
		t.Fatalf("lists = %d", lists)
	}
}

func TestToHTML(t *testing.T) {
	html, err := ToHTML("# Report\n\n## Summary\n\n- revenue up\n- costs flat")
	if err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{"<!DOCTYPE html>", "<h1", "<h2", "<li>", "font-family"} {
		if !strings.Contains(html, frag) {
			t.Fatalf("html missing %q", frag)
		}
	}
}

func TestToHTMLEmpty(t *testing.T) {
	html, err := ToHTML("   ")
	if err != nil || html != "" {
		t.Fatalf("html = %q, err = %v", html, err)
	}
}
