package ingest

import (
	"encoding/json"
	"strings"
)

// ContentType describes the shape of a raw data payload.
type ContentType string

const (
	ContentTabular      ContentType = "tabular"
	ContentStructured   ContentType = "structured"
	ContentUnstructured ContentType = "unstructured"
)

// ResolveContentType classifies raw text as tabular, structured, or
// unstructured. It never fails: anything that is not recognizably delimited
// or hierarchical resolves to unstructured.
func ResolveContentType(content string) ContentType {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ContentUnstructured
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > 1 {
		first := lines[0]
		if strings.Count(first, ",") >= 1 && len(strings.Split(first, ",")) >= 2 {
			return ContentTabular
		}
		if strings.Count(first, "\t") >= 1 && len(strings.Split(first, "\t")) >= 2 {
			return ContentTabular
		}
	}

	if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		var probe any
		if json.Unmarshal([]byte(trimmed), &probe) == nil {
			return ContentStructured
		}
	}

	return ContentUnstructured
}

// ResolveDeclared maps a caller-declared type (csv, json, text, auto) to a
// ContentType, falling back to auto-detection for auto or unknown values.
func ResolveDeclared(declared, content string) ContentType {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "csv", "tsv", "tabular":
		return ContentTabular
	case "json", "structured":
		return ContentStructured
	case "text", "txt", "unstructured":
		return ContentUnstructured
	default:
		return ResolveContentType(content)
	}
}
