package extract

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseTokenizer tokenizes English text with prose's iterative tokenizer, which
// splits punctuation and contractions off words. Tagging, segmentation and
// entity extraction are switched off.
type ProseTokenizer struct{}

func NewProseTokenizer() *ProseTokenizer {
	return &ProseTokenizer{}
}

func (t *ProseTokenizer) Tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return strings.Fields(text)
	}

	tokens := doc.Tokens()
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		words = append(words, token.Text)
	}
	return words
}
