package format

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlStyle = `body { font-family: Arial, sans-serif; line-height: 1.6; margin: 40px; }
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #34495e; margin-top: 30px; }
h3 { color: #7f8c8d; }
ul, ol { margin-left: 20px; }
li { margin-bottom: 5px; }
p { margin-bottom: 15px; }
.metadata { background-color: #f8f9fa; padding: 15px; border-left: 4px solid #3498db; margin: 20px 0; }`

// ToHTML renders report markdown as a complete styled HTML document.
func ToHTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	var body strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Business Intelligence Report</title>
    <style>
%s
    </style>
</head>
<body>
%s</body>
</html>`, htmlStyle, body.String()), nil
}
