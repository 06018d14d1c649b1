package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/lazyhunt/internal/document"
	"github.com/spigell/lazyhunt/internal/extract"
	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/jobpage"
	"github.com/spigell/lazyhunt/internal/merge"
	"github.com/spigell/lazyhunt/internal/testutil"
	"github.com/spigell/lazyhunt/internal/vocabulary"
)

type stubFetcher struct {
	text  string
	err   error
	calls int
}

func (f *stubFetcher) FetchJobText(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type countingMerger struct {
	merge.Merger
	calls int
}

func (m *countingMerger) Merge(doc *document.Document, skills []string) (*document.Document, error) {
	m.calls++
	return m.Merger.Merge(doc, skills)
}

func newOrchestrator(t *testing.T, fetcher Fetcher, merger Merger, logger *zap.Logger) *Orchestrator {
	t.Helper()

	if merger == nil {
		merger = merge.New(logger, merge.Options{})
	}
	o, err := New(Deps{
		Fetcher:   fetcher,
		Extractor: extract.New(vocabulary.Default(), nil, logger),
		Merger:    merger,
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func texts(t *testing.T, data []byte) []string {
	t.Helper()

	doc, err := document.Load(data)
	if err != nil {
		t.Fatalf("load result: %v", err)
	}
	defer doc.Close()
	return doc.Texts()
}

func TestUpdateSkills(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{text: "We need a Python engineer with AWS and Kubernetes experience."}
	resume := testutil.TextDocx(t, "Jane Doe", "Skills", "java, Python", "Experience", "Acme")

	result, err := newOrchestrator(t, fetcher, nil, nil).UpdateSkills(context.Background(), Request{
		JobURL: "https://jobs.example.com/1",
		Name:   "resume.docx",
		Resume: resume,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Updated || result.Warning != nil {
		t.Fatalf("unexpected result state: updated=%v warning=%v", result.Updated, result.Warning)
	}
	if !reflect.DeepEqual(result.Skills, []string{"AWS", "Kubernetes", "Python"}) {
		t.Fatalf("unexpected skills %q", result.Skills)
	}

	expect := []string{"Jane Doe", "Skills", "Aws, Java, Kubernetes, Python", "Experience", "Acme"}
	if got := texts(t, result.Document); !reflect.DeepEqual(got, expect) {
		t.Fatalf("unexpected texts %q", got)
	}
}

func TestUpdateSkillsWithoutSkillsSection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		texts []string
	}{
		{name: "no header", texts: []string{"Jane Doe", "Experience", "Acme"}},
		{name: "header is last", texts: []string{"Jane Doe", "Experience", "Skills"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resume := testutil.TextDocx(t, tt.texts...)
			fetcher := &stubFetcher{text: "Python and Azure"}

			result, err := newOrchestrator(t, fetcher, nil, nil).UpdateSkills(context.Background(), Request{Resume: resume})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Updated {
				t.Fatalf("document must not be updated")
			}
			if !failure.Is(result.Warning, failure.KindNoSkillsSection) {
				t.Fatalf("expected no_skills_section warning, got %v", result.Warning)
			}
			if !bytes.Equal(result.Document, resume) {
				t.Fatalf("document must be byte-identical to the input")
			}
		})
	}
}

func TestUpdateSkillsEmptyExtraction(t *testing.T) {
	t.Parallel()

	merger := &countingMerger{Merger: *merge.New(nil, merge.Options{})}
	resume := testutil.TextDocx(t, "Skills", "Go")

	result, err := newOrchestrator(t, &stubFetcher{text: "we like cooking and hiking"}, merger, nil).
		UpdateSkills(context.Background(), Request{Resume: resume})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merger.calls != 0 {
		t.Fatalf("merger must not run without skills")
	}
	if result.Updated || result.Warning != nil || len(result.Skills) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !bytes.Equal(result.Document, resume) {
		t.Fatalf("document must be byte-identical to the input")
	}
}

func TestUpdateSkillsHaltsOnFatalFailures(t *testing.T) {
	t.Parallel()

	fetchErr := failure.New(failure.KindFetch, "fetch job text", errors.New("connection refused"))

	tests := []struct {
		name    string
		fetcher *stubFetcher
		resume  []byte
		kind    failure.Kind
	}{
		{name: "fetch", fetcher: &stubFetcher{err: fetchErr}, resume: testutil.TextDocx(t, "Skills", "Go"), kind: failure.KindFetch},
		{name: "empty text", fetcher: &stubFetcher{text: "  \n\t "}, resume: testutil.TextDocx(t, "Skills", "Go"), kind: failure.KindEmptyJobText},
		{name: "broken resume", fetcher: &stubFetcher{text: "Python"}, resume: []byte("not a docx"), kind: failure.KindDocumentParse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := newOrchestrator(t, tt.fetcher, nil, nil).UpdateSkills(context.Background(), Request{Resume: tt.resume})
			if result != nil {
				t.Fatalf("no result expected on failure")
			}
			if !failure.Is(err, tt.kind) {
				t.Fatalf("expected %s failure, got %v", tt.kind, err)
			}
			if tt.fetcher.calls != 1 {
				t.Fatalf("expected one fetch, got %d", tt.fetcher.calls)
			}
		})
	}
}

func TestUpdateSkillsFetchesBeforeReadingResume(t *testing.T) {
	t.Parallel()

	fetchErr := failure.New(failure.KindFetch, "fetch job text", errors.New("timeout"))

	_, err := newOrchestrator(t, &stubFetcher{err: fetchErr}, nil, nil).
		UpdateSkills(context.Background(), Request{Resume: []byte("not a docx")})
	if !failure.Is(err, failure.KindFetch) {
		t.Fatalf("fetch failure must win over a broken resume, got %v", err)
	}
}

func TestUpdateSkillsIsIdempotent(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &stubFetcher{text: "PyTorch, TensorFlow and MLflow"}, nil, nil)
	resume := testutil.TextDocx(t, "Skills", "Go, Rust")

	first, err := o.UpdateSkills(context.Background(), Request{Resume: resume})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := o.UpdateSkills(context.Background(), Request{Resume: first.Document})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(texts(t, first.Document), texts(t, second.Document)) {
		t.Fatalf("second run changed the document: %q vs %q", texts(t, first.Document), texts(t, second.Document))
	}
	if got := texts(t, second.Document)[1]; got != "Mlflow, Pytorch, Rust, Tensorflow" {
		t.Fatalf("unexpected skills block %q", got)
	}
}

func TestUpdateSkillsLogsRequestFields(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	o := newOrchestrator(t, &stubFetcher{text: "Ansible"}, nil, zap.New(core))

	_, err := o.UpdateSkills(context.Background(), Request{
		JobURL: "https://jobs.example.com/2",
		Name:   "cv.docx",
		Resume: testutil.TextDocx(t, "Skills", "Bash"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := observed.FilterMessage("pipeline step").All()
	var names []string
	for _, entry := range steps {
		fields := entry.ContextMap()
		if fields["job_url"] != "https://jobs.example.com/2" {
			t.Fatalf("missing job_url in %v", fields)
		}
		names = append(names, fields["name"].(string))
	}
	if !reflect.DeepEqual(names, []string{"fetch", "extract", "load", "merge"}) {
		t.Fatalf("unexpected steps %q", names)
	}
	if observed.FilterField(zap.String("document", "cv.docx")).Len() != len(steps) {
		t.Fatalf("every step must carry the document name")
	}
}

func TestExtractSkillsFromPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><nav>GitHub</nav>` +
			`<div class="job-description">Build RAG services with Langchain on GCP.</div></body></html>`))
	}))
	t.Cleanup(srv.Close)

	o := newOrchestrator(t, jobpage.New(nil, jobpage.Config{}), nil, nil)

	skills, err := o.ExtractSkills(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(skills, []string{"GCP", "Langchain", "RAG"}) {
		t.Fatalf("unexpected skills %q", skills)
	}
}

func TestNewRequiresStages(t *testing.T) {
	t.Parallel()

	if _, err := New(Deps{}); err == nil {
		t.Fatalf("expected error without stages")
	}
}
