package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/document"
	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/logger"
	"github.com/spigell/lazyhunt/internal/utils"
)

const previewLength = 200

// Fetcher returns the visible job description text behind a URL.
type Fetcher interface {
	FetchJobText(ctx context.Context, url string) (string, error)
}

// Extractor turns free text into a sorted list of skills.
type Extractor interface {
	Extract(text string) []string
}

// Merger folds skills into the skills block of a document.
type Merger interface {
	Merge(doc *document.Document, skills []string) (*document.Document, error)
}

// Deps aggregates the stages of the pipeline.
type Deps struct {
	Fetcher   Fetcher
	Extractor Extractor
	Merger    Merger
	Logger    *zap.Logger
}

// Request describes one skills update.
type Request struct {
	JobURL string
	// Name is the resume file name, used for logging only.
	Name   string
	Resume []byte
}

// Result is the outcome of a skills update.
type Result struct {
	// Document is the serialized resume. It is the input unchanged when Updated is false.
	Document []byte
	Skills   []string
	Updated  bool
	// Warning holds a non-fatal failure, such as a resume without a skills section.
	Warning error
}

type Orchestrator struct {
	deps Deps
}

func New(deps Deps) (*Orchestrator, error) {
	if deps.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if deps.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if deps.Merger == nil {
		return nil, errors.New("merger is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Orchestrator{deps: deps}, nil
}

// ExtractSkills fetches the job posting and returns the skills found in it.
// An empty posting is an empty_job_text failure.
func (o *Orchestrator) ExtractSkills(ctx context.Context, jobURL string) ([]string, error) {
	return o.extract(ctx, logger.WithRequestFields(o.deps.Logger, jobURL, ""), jobURL)
}

// UpdateSkills runs fetch, extract and merge for one resume. The fetch happens
// first and any fatal failure stops the run without producing a document.
func (o *Orchestrator) UpdateSkills(ctx context.Context, req Request) (*Result, error) {
	log := logger.WithRequestFields(o.deps.Logger, req.JobURL, req.Name)

	skills, err := o.extract(ctx, log, req.JobURL)
	if err != nil {
		return nil, err
	}

	doc, err := document.Load(req.Resume)
	if err != nil {
		log.Warn("resume cannot be read", zap.Error(err))
		return nil, err
	}
	defer doc.Close()

	log.Info("pipeline step", zap.String("name", "load"), zap.Int("paragraphs", doc.Len()))

	result := &Result{
		Document: req.Resume,
		Skills:   skills,
	}

	if len(skills) == 0 {
		log.Info("no skills found in the job posting; resume left as is")
		return result, nil
	}

	updated, err := o.deps.Merger.Merge(doc, skills)
	if err != nil {
		kind, ok := failure.KindOf(err)
		if !ok || kind.Fatal() {
			return nil, fmt.Errorf("merge skills: %w", err)
		}
		log.Warn("resume left as is", zap.Error(err))
		result.Warning = err
		return result, nil
	}

	if !updated.Modified() {
		return result, nil
	}

	out, err := updated.Bytes()
	if err != nil {
		return nil, fmt.Errorf("save resume: %w", err)
	}

	result.Document = out
	result.Updated = true

	log.Info("pipeline step",
		zap.String("name", "merge"),
		zap.Int("skills", len(skills)),
		zap.Int("size", len(out)),
	)

	return result, nil
}

func (o *Orchestrator) extract(ctx context.Context, log *zap.Logger, jobURL string) ([]string, error) {
	text, err := o.deps.Fetcher.FetchJobText(ctx, jobURL)
	if err != nil {
		log.Warn("fetching job posting", zap.Error(err))
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		log.Warn("job posting has no text")
		return nil, failure.New(failure.KindEmptyJobText, "fetch job text", errors.New("no job description found"))
	}

	log.Info("pipeline step", zap.String("name", "fetch"), zap.Int("length", len(text)))
	log.Debug("job text preview", zap.String("text", utils.TruncateForLog(text, previewLength)))

	skills := o.deps.Extractor.Extract(text)

	log.Info("pipeline step", zap.String("name", "extract"), zap.Strings("skills", skills))

	return skills, nil
}
