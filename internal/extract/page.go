package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// maxTitleLen truncates absurdly long <title> contents
const maxTitleLen = 300

// PageTitle returns the document title of an HTML page. It falls back to the
// og:title meta tag and then to the first <h1>. An empty string means no title was found.
func PageTitle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var title, ogTitle, heading string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "title":
				if title == "" {
					title = nodeText(n)
				}
			case "meta":
				if ogTitle == "" && attr(n, "property") == "og:title" {
					ogTitle = strings.TrimSpace(attr(n, "content"))
				}
			case "h1":
				if heading == "" {
					heading = nodeText(n)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, candidate := range []string{title, ogTitle, heading} {
		if candidate != "" {
			return truncate(candidate, maxTitleLen), nil
		}
	}
	return "", nil
}

// nodeText concatenates the text nodes under n, collapsing whitespace
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(buf.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
