package feed

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup reduces feed text to its plain-text content. The feed file is
// static but externally editable, so its strings are treated as untrusted;
// templates escape on output and this strips tags on input.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Unparseable input degrades to escaping-only at render time.
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}
