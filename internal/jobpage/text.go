package jobpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// VisibleText returns the text of the selection with tags stripped, whitespace
// collapsed and text nodes joined by single spaces. Script-like content is skipped.
func VisibleText(sel *goquery.Selection) string {
	var words []string
	for _, node := range sel.Nodes {
		words = collectWords(node, words)
	}
	return strings.Join(words, " ")
}

func collectWords(node *html.Node, words []string) []string {
	switch node.Type {
	case html.TextNode:
		return append(words, strings.Fields(node.Data)...)
	case html.ElementNode:
		switch node.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return words
		}
	case html.CommentNode:
		return words
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		words = collectWords(child, words)
	}
	return words
}
