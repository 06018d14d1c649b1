package merge

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/lazyhunt/internal/document"
	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/testutil"
)

func load(t *testing.T, texts ...string) *document.Document {
	t.Helper()

	doc, err := document.Load(testutil.TextDocx(t, texts...))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestMergeScenario(t *testing.T) {
	t.Parallel()

	doc := load(t, "Jane Doe", "Skills", "java, Python", "Experience")

	updated, err := New(nil, Options{}).Merge(doc, []string{"AWS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := []string{"Jane Doe", "Skills", "Aws, Java, Python", "Experience"}
	if !reflect.DeepEqual(updated.Texts(), expect) {
		t.Fatalf("unexpected texts %q", updated.Texts())
	}
	if doc.Text(2) != "java, Python" {
		t.Fatalf("input document must stay untouched")
	}
}

func TestMergeHeaderIsLastParagraph(t *testing.T) {
	t.Parallel()

	doc := load(t, "Jane Doe", "Skills")

	got, err := New(nil, Options{}).Merge(doc, []string{"Go"})
	if !failure.Is(err, failure.KindNoSkillsSection) {
		t.Fatalf("expected no_skills_section, got %v", err)
	}
	if got != doc || got.Modified() {
		t.Fatalf("document must be returned unchanged")
	}
}

func TestMergeWithoutHeader(t *testing.T) {
	t.Parallel()

	doc := load(t, "Jane Doe", "Experience", "Go developer")
	core, observed := observer.New(zapcore.InfoLevel)

	got, err := New(zap.New(core), Options{}).Merge(doc, []string{"Go"})
	if !failure.Is(err, failure.KindNoSkillsSection) {
		t.Fatalf("expected no_skills_section, got %v", err)
	}
	if got != doc {
		t.Fatalf("document must be returned unchanged")
	}
	if observed.FilterMessage("skills section not found").Len() != 1 {
		t.Fatalf("expected a log entry for the missing section")
	}
}

func TestMergeUsesFirstHeaderAnyCase(t *testing.T) {
	t.Parallel()

	doc := load(t, "TECHNICAL SKILLS:", "Docker / Linux; bash", "Soft skills", "Patience")

	updated, err := New(nil, Options{}).Merge(doc, []string{"GitHub"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := []string{"TECHNICAL SKILLS:", "Bash, Docker, Github, Linux", "Soft skills", "Patience"}
	if !reflect.DeepEqual(updated.Texts(), expect) {
		t.Fatalf("unexpected texts %q", updated.Texts())
	}
}

func TestMergeReplacesOversizedBlock(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("I like long prose, ", 20)
	doc := load(t, "Skills", long)

	updated, err := New(nil, Options{}).Merge(doc, []string{"Python", "AWS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := updated.Text(1); got != "Aws, Python" {
		t.Fatalf("unexpected block %q", got)
	}

	// a higher limit reads the same block as a list
	updated, err = New(nil, Options{MaxExistingLength: 1000}).Merge(doc, []string{"AWS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := updated.Text(1); got != "Aws, I Like Long Prose" {
		t.Fatalf("unexpected block %q", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	doc := load(t, "Skills", "Terraform, go")
	m := New(nil, Options{})

	once, err := m.Merge(doc, []string{"Kubernetes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := m.Merge(once, []string{"Kubernetes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if once.Text(1) != twice.Text(1) {
		t.Fatalf("expected idempotent merge: %q vs %q", once.Text(1), twice.Text(1))
	}
}

func TestMergeIsOrderIndependent(t *testing.T) {
	t.Parallel()

	doc := load(t, "Skills", "Terraform")
	m := New(nil, Options{})

	merge := func(d *document.Document, sets ...[]string) string {
		t.Helper()
		for _, set := range sets {
			var err error
			d, err = m.Merge(d, set)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		return d.Text(1)
	}

	ab := []string{"Azure", "PyTorch"}
	c := []string{"GPT-4"}

	first := merge(doc, ab, c)
	second := merge(doc, c, ab)
	if first != second {
		t.Fatalf("order dependent result: %q vs %q", first, second)
	}
	if first != "Azure, Gpt-4, Pytorch, Terraform" {
		t.Fatalf("unexpected block %q", first)
	}
}

func TestMergeSurvivesSaveAndReload(t *testing.T) {
	t.Parallel()

	doc := load(t, "Summary", "Skills", "java", "Education")

	updated, err := New(nil, Options{}).Merge(doc, []string{"Vector DB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := updated.Bytes()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := document.Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer reloaded.Close()

	expect := []string{"Summary", "Skills", "Java, Vector Db", "Education"}
	if !reflect.DeepEqual(reloaded.Texts(), expect) {
		t.Fatalf("unexpected texts %q", reloaded.Texts())
	}
}

func TestParseEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "all delimiters", input: "Go / Rust; Python\nKubernetes, AWS", expect: []string{"rust", "python", "kubernetes", "aws"}},
		{name: "noise dropped", input: "C, R, Go, SQL, , ;", expect: []string{"sql"}},
		{name: "trims whitespace", input: "  Terraform \t,\tAnsible  ", expect: []string{"terraform", "ansible"}},
		{name: "three characters kept", input: "Git", expect: []string{"git"}},
		{name: "empty", input: "", expect: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseEntries(tt.input); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{input: "aws", expect: "Aws"},
		{input: "AWS", expect: "Aws"},
		{input: "vector db", expect: "Vector Db"},
		{input: "gpt-4", expect: "Gpt-4"},
		{input: "gpt-4o", expect: "Gpt-4O"},
		{input: "o'neil", expect: "O'Neil"},
		{input: "c++", expect: "C++"},
		{input: "node.js", expect: "Node.Js"},
		{input: "ßtraße", expect: "Sstraße"},
		{input: "STRASSE", expect: "Strasse"},
		{input: "ﬁle system", expect: "File System"},
		{input: "ǆango", expect: "ǅango"},
		{input: "", expect: ""},
	}

	for _, tt := range tests {
		tt := tt
		if got := TitleCase(tt.input); got != tt.expect {
			t.Fatalf("TitleCase(%q): expected %q, got %q", tt.input, tt.expect, got)
		}
	}
}

func TestRenderSortsTitledEntries(t *testing.T) {
	t.Parallel()

	got := Render(Union([]string{"python", "java"}, []string{"AWS", "Python", "aws"}))
	if got != "Aws, Java, Python" {
		t.Fatalf("unexpected render %q", got)
	}
	if Render(nil) != "" {
		t.Fatalf("empty set must render empty")
	}
}

func TestFindHeader(t *testing.T) {
	t.Parallel()

	if idx, ok := FindHeader([]string{"Name", "Key Skills & Tools", "Skills"}); !ok || idx != 1 {
		t.Fatalf("unexpected header %d %v", idx, ok)
	}
	if _, ok := FindHeader([]string{"Name", "Experience"}); ok {
		t.Fatalf("expected no header")
	}
}
