package report

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; padding: 0 1em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
code { background: #f4f4f4; padding: 0 0.2em; }
img { max-width: 100%%; }
</style>
</head>
<body>
%s</body>
</html>
`

// toHTML converts the markdown document into a self-contained HTML page.
func toHTML(doc string, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML([]byte(doc), p, renderer)
	return []byte(fmt.Sprintf(htmlShell, title, body))
}
