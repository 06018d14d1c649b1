package jobpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/utils"
)

// Strategy is a single heuristic for locating job text on a page.
type Strategy interface {
	Name() string
	// Apply returns the text it found and whether it is usable.
	Apply(doc *goquery.Document) (string, bool)
}

// Strategies builds the default chain: one class lookup per name, in order,
// followed by the whole-body fallback.
func Strategies(classes []string, maxTextLength int) []Strategy {
	steps := make([]Strategy, 0, len(classes)+1)
	for _, class := range classes {
		class = strings.TrimSpace(class)
		if class == "" {
			continue
		}
		steps = append(steps, NewClass(class))
	}
	return append(steps, NewBody(maxTextLength))
}

// Run tries the strategies in order and returns the first non-empty text together
// with the name of the strategy that produced it.
func Run(doc *goquery.Document, steps []Strategy, logger *zap.Logger) (string, string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		text, ok := step.Apply(doc)
		logger.Debug("strategy step", zap.String("name", step.Name()), zap.Bool("found", ok))
		if ok {
			return text, step.Name()
		}
	}

	return "", ""
}

type classStrategy struct {
	class string
}

// NewClass creates a strategy that takes the first element carrying the given class.
// A class value with spaces only matches an identical class attribute.
func NewClass(class string) Strategy {
	return &classStrategy{class: class}
}

func (s *classStrategy) Name() string { return "class:" + s.class }

func (s *classStrategy) Apply(doc *goquery.Document) (string, bool) {
	match := doc.Find("[class]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		value, _ := sel.Attr("class")
		return hasClass(value, s.class)
	}).First()
	if match.Length() == 0 {
		return "", false
	}

	text := VisibleText(match)
	return text, text != ""
}

func hasClass(attr, class string) bool {
	if attr == class {
		return true
	}
	for _, field := range strings.Fields(attr) {
		if field == class {
			return true
		}
	}
	return false
}

type bodyStrategy struct {
	maxLength int
}

// NewBody creates the fallback strategy: the whole body text cut to maxLength characters.
func NewBody(maxLength int) Strategy {
	return &bodyStrategy{maxLength: maxLength}
}

func (s *bodyStrategy) Name() string { return "body" }

func (s *bodyStrategy) Apply(doc *goquery.Document) (string, bool) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", false
	}

	text := utils.TruncateRunes(VisibleText(body), s.maxLength)
	return text, text != ""
}
