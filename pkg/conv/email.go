package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var emailPolicy = bluemonday.NewPolicy()

func init() {
	emailPolicy.AllowElements("p", "br", "b", "strong", "i", "em", "u", "ul", "ol", "li", "blockquote")
	emailPolicy.AllowAttrs("href").OnElements("a")
	emailPolicy.RequireParseableURLs(true)
	emailPolicy.AllowURLSchemes("http", "https", "mailto")
	emailPolicy.AddTargetBlankToFullyQualifiedLinks(true)
}

// MarkdownToEmailHTML renders a markdown message body as a sanitized HTML
// fragment suitable for pasting into an email client.
func MarkdownToEmailHTML(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	unsafeHTML := markdown.Render(p.Parse([]byte(md)), renderer)

	return strings.TrimSpace(string(emailPolicy.SanitizeBytes(unsafeHTML)))
}

// LooksLikeHTML reports whether s contains common block or inline tags.
func LooksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	for _, tag := range []string{"<p>", "<p ", "<br", "<div", "<html", "<body", "<strong>", "<a "} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}

// HTMLToText converts an HTML fragment to readable plain text.
func HTMLToText(s string) (string, error) {
	text, err := html2text.FromString(s, html2text.Options{
		OmitLinks: false,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
