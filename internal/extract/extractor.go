package extract

import (
	"sort"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/vocabulary"
)

// minTermLength is the shortest capitalized run the pattern pass considers.
const minTermLength = 3

// Tokenizer splits free text into word-level tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

type Extractor struct {
	vocab     *vocabulary.Vocabulary
	tokenizer Tokenizer
	logger    *zap.Logger
}

// New creates an extractor bound to vocab. A nil tokenizer means ProseTokenizer.
func New(vocab *vocabulary.Vocabulary, tokenizer Tokenizer, logger *zap.Logger) *Extractor {
	if tokenizer == nil {
		tokenizer = NewProseTokenizer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		vocab:     vocab,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Extract returns the sorted, de-duplicated vocabulary terms present in text.
// A term is found either as a whole token or as a capitalized pattern match.
func (e *Extractor) Extract(text string) []string {
	found := make(map[string]struct{})

	tokens := e.tokenizer.Tokenize(text)
	for _, token := range tokens {
		if e.vocab.Contains(token) {
			found[token] = struct{}{}
		}
	}
	byTokens := len(found)

	for _, match := range capitalizedTerms(text) {
		if e.vocab.Contains(match) {
			found[match] = struct{}{}
		}
	}

	skills := make([]string, 0, len(found))
	for skill := range found {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	e.logger.Debug("skills extracted",
		zap.Int("tokens", len(tokens)),
		zap.Int("token_matches", byTokens),
		zap.Strings("skills", skills),
	)

	return skills
}

// capitalizedTerms finds uppercase-initial runs such as "Python", "GPT-4" or "C++".
// A run starts with an ASCII capital at a word boundary, continues over ASCII
// letters, digits and "-+.#", and ends at the longest prefix of at least
// minTermLength characters that is followed by a word boundary. Letters and
// digits of any script count as word characters, so "éPython" holds no term.
func capitalizedTerms(text string) []string {
	var terms []string

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] < 'A' || runes[i] > 'Z' || (i > 0 && isWordRune(runes[i-1])) {
			i++
			continue
		}

		j := i + 1
		for j < len(runes) && isTermRune(runes[j]) {
			j++
		}

		end := -1
		for k := j; k >= i+minTermLength; k-- {
			if isBoundary(runes, k) {
				end = k
				break
			}
		}
		if end < 0 {
			i++
			continue
		}

		terms = append(terms, string(runes[i:end]))
		i = end
	}

	return terms
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isTermRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r == '-' || r == '+' || r == '.' || r == '#'
}

// isBoundary reports whether position k, between runes[k-1] and runes[k], is a word boundary.
func isBoundary(runes []rune, k int) bool {
	before := k > 0 && isWordRune(runes[k-1])
	after := k < len(runes) && isWordRune(runes[k])
	return before != after
}
