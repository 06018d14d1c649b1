package merge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/lazyhunt/internal/document"
	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/utils"
)

const (
	header = "skills"
	// Entries this short or shorter are noise such as "a" or "&".
	minEntryLength = 2
	// DefaultMaxExistingLength is the longest skills block still parsed as a list.
	DefaultMaxExistingLength = 300
	previewLength            = 120
)

var delimiters = regexp.MustCompile(`[,/;\n]`)

// Options tune the merge.
type Options struct {
	// MaxExistingLength is the character count at which the block after the header
	// stops being read as a list of existing skills.
	MaxExistingLength int `mapstructure:"max-existing-length"`
}

type Merger struct {
	maxExisting int
	logger      *zap.Logger
}

func New(logger *zap.Logger, opts Options) *Merger {
	if opts.MaxExistingLength <= 0 {
		opts.MaxExistingLength = DefaultMaxExistingLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Merger{
		maxExisting: opts.MaxExistingLength,
		logger:      logger,
	}
}

// Merge rewrites the paragraph after the first skills header with the union of its
// entries and skills. The input document is never modified. When no header or no
// following paragraph exists, doc is returned as is together with a
// no_skills_section failure.
func (m *Merger) Merge(doc *document.Document, skills []string) (*document.Document, error) {
	texts := doc.Texts()

	idx, ok := FindHeader(texts)
	if !ok {
		m.logger.Info("skills section not found", zap.Int("paragraphs", len(texts)))
		return doc, failure.New(failure.KindNoSkillsSection, "merge skills", fmt.Errorf("no paragraph mentions %q", header))
	}

	next := idx + 1
	if next >= len(texts) {
		m.logger.Info("skills header is the last paragraph", zap.Int("header_index", idx))
		return doc, failure.New(failure.KindNoSkillsSection, "merge skills", fmt.Errorf("nothing follows the skills header at paragraph %d", idx))
	}

	var existing []string
	if utf8.RuneCountInString(texts[next]) < m.maxExisting {
		existing = ParseEntries(texts[next])
	} else {
		m.logger.Warn("skills block too long to read as a list; replacing it",
			zap.Int("index", next),
			zap.Int("length", utf8.RuneCountInString(texts[next])),
			zap.Int("limit", m.maxExisting),
		)
	}

	line := Render(Union(existing, skills))

	updated, err := doc.ReplaceText(next, line)
	if err != nil {
		return doc, fmt.Errorf("replace skills block: %w", err)
	}

	m.logger.Info("skills block rewritten",
		zap.Int("header_index", idx),
		zap.Int("existing", len(existing)),
		zap.Int("added", len(skills)),
	)
	m.logger.Debug("skills block preview", zap.String("text", utils.TruncateForLog(line, previewLength)))

	return updated, nil
}

// FindHeader returns the index of the first text containing "skills" in any case.
func FindHeader(texts []string) (int, bool) {
	for i, text := range texts {
		if strings.Contains(strings.ToLower(text), header) {
			return i, true
		}
	}
	return -1, false
}

// ParseEntries splits a skills line on commas, slashes, semicolons and newlines,
// and returns the trimmed, lower-cased entries longer than two characters.
func ParseEntries(text string) []string {
	var entries []string
	for _, part := range delimiters.Split(text, -1) {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) <= minEntryLength {
			continue
		}
		entries = append(entries, strings.ToLower(part))
	}
	return entries
}

// Union lower-cases and merges both lists into a set.
func Union(existing, skills []string) map[string]struct{} {
	merged := make(map[string]struct{}, len(existing)+len(skills))
	for _, s := range existing {
		merged[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range skills {
		merged[strings.ToLower(s)] = struct{}{}
	}
	return merged
}

// Render title-cases every entry, sorts the result and joins it with ", ".
func Render(set map[string]struct{}) string {
	titled := make(map[string]struct{}, len(set))
	for s := range set {
		titled[TitleCase(s)] = struct{}{}
	}

	entries := make([]string, 0, len(titled))
	for s := range titled {
		entries = append(entries, s)
	}
	sort.Strings(entries)

	return strings.Join(entries, ", ")
}

// TitleCase title-cases every letter that follows an uncased character and
// lower-cases the rest: "vector db" -> "Vector Db", "AWS" -> "Aws", "gpt-4o" -> "Gpt-4O".
// Full case mappings apply, so one rune may become several ("ßtraße" -> "Sstraße").
func TitleCase(s string) string {
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)

	var sb strings.Builder
	sb.Grow(len(s))

	prevCased := false
	for _, r := range s {
		if prevCased {
			sb.WriteString(lower.String(string(r)))
		} else {
			sb.WriteString(title.String(string(r)))
		}
		prevCased = unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
	}
	return sb.String()
}
