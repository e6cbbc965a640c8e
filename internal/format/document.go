// Package format converts report markdown into structured documents and
// styled HTML for delivery channels.
package format

import "strings"

// BlockKind tags one parsed block of a report document.
type BlockKind string

const (
	BlockHeading1  BlockKind = "h1"
	BlockHeading2  BlockKind = "h2"
	BlockHeading3  BlockKind = "h3"
	BlockList      BlockKind = "list"
	BlockParagraph BlockKind = "paragraph"
)

// Block is a single unit of report content. Lists carry their items; other
// kinds carry Text.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Items   []string  `json:"items,omitempty"`
	Ordered bool      `json:"ordered,omitempty"`
}

// Document is a report parsed into ordered blocks, suitable for channel
// renderers that cannot consume raw markdown.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// ParseDocument splits report markdown into blocks line by line. It handles
// the subset of markdown the generators emit: headings, bullet and numbered
// lists, and paragraphs. Blank lines close the current list.
func ParseDocument(markdown string) Document {
	var doc Document
	var list *Block

	flushList := func() {
		if list != nil {
			doc.Blocks = append(doc.Blocks, *list)
			list = nil
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "### "):
			flushList()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockHeading3, Text: strings.TrimSpace(line[4:])})
		case strings.HasPrefix(line, "## "):
			flushList()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockHeading2, Text: strings.TrimSpace(line[3:])})
		case strings.HasPrefix(line, "# "):
			flushList()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockHeading1, Text: strings.TrimSpace(line[2:])})
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			if list == nil || list.Ordered {
				flushList()
				list = &Block{Kind: BlockList}
			}
			list.Items = append(list.Items, strings.TrimSpace(trimmed[2:]))
		case isOrderedItem(trimmed):
			if list == nil || !list.Ordered {
				flushList()
				list = &Block{Kind: BlockList, Ordered: true}
			}
			list.Items = append(list.Items, orderedItemText(trimmed))
		case trimmed == "":
			flushList()
		default:
			flushList()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockParagraph, Text: trimmed})
		}
	}
	flushList()
	return doc
}

func isOrderedItem(s string) bool {
	dot := strings.Index(s, ". ")
	if dot <= 0 {
		return false
	}
	for _, c := range s[:dot] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func orderedItemText(s string) string {
	dot := strings.Index(s, ". ")
	return strings.TrimSpace(s[dot+2:])
}
