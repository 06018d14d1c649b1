package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/document"
	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/pipeline"
	"github.com/spigell/lazyhunt/internal/render"
)

const (
	// UpdatedFileName is the attachment name of an updated resume.
	UpdatedFileName = "resume_with_skills_updated.docx"
	// RenderedFileName is the attachment name of a rendered resume.
	RenderedFileName = "resume.pdf"

	missingInputs = "Please provide both a Job Post URL and a resume."

	multipartMemory = 8 << 20
)

// SkillsService runs the skills pipeline.
type SkillsService interface {
	ExtractSkills(ctx context.Context, jobURL string) ([]string, error)
	UpdateSkills(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// ResumeRenderer lays out resume data as a PDF.
type ResumeRenderer interface {
	Bytes(data *render.Data) ([]byte, error)
}

type extractRequest struct {
	URL string `json:"url"`
}

type handler struct {
	skills   SkillsService
	renderer ResumeRenderer
	logger   *zap.Logger
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	Success(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) extractSkills(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.decodeError(w, r, err)
		return
	}

	jobURL := strings.TrimSpace(req.URL)
	if jobURL == "" {
		Error(w, http.StatusBadRequest, kindValidation, "url is required")
		return
	}

	skills, err := h.skills.ExtractSkills(r.Context(), jobURL)
	if err != nil {
		HandleError(w, h.requestLogger(r), err)
		return
	}
	if skills == nil {
		skills = []string{}
	}

	Success(w, http.StatusOK, map[string][]string{"skills": skills})
}

func (h *handler) updateSkills(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.decodeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	jobURL := strings.TrimSpace(r.FormValue("url"))
	file, header, err := r.FormFile("resume")
	if jobURL == "" || err != nil {
		Error(w, http.StatusBadRequest, kindValidation, missingInputs)
		return
	}
	defer file.Close()

	resume, err := io.ReadAll(file)
	if err != nil {
		HandleError(w, h.requestLogger(r), fmt.Errorf("read resume: %w", err))
		return
	}

	result, err := h.skills.UpdateSkills(r.Context(), pipeline.Request{
		JobURL: jobURL,
		Name:   header.Filename,
		Resume: resume,
	})
	if err != nil {
		HandleError(w, h.requestLogger(r), err)
		return
	}

	w.Header().Set("Content-Type", document.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", UpdatedFileName))
	w.Header().Set("X-Skills-Updated", strconv.FormatBool(result.Updated))
	w.Header().Set("X-Skills-Added", strings.Join(result.Skills, ", "))
	if kind, ok := failure.KindOf(result.Warning); ok {
		w.Header().Set("X-Skills-Warning", kind.String())
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Document)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Document)
}

func (h *handler) renderPDF(w http.ResponseWriter, r *http.Request) {
	data, err := render.LoadData(r.Body)
	if err != nil {
		h.decodeError(w, r, err)
		return
	}

	out, err := h.renderer.Bytes(data)
	if err != nil {
		HandleError(w, h.requestLogger(r), err)
		return
	}

	w.Header().Set("Content-Type", render.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", RenderedFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// decodeError reports a malformed request body.
func (h *handler) decodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, render.ErrInvalidData) {
		HandleError(w, h.requestLogger(r), err)
		return
	}
	Error(w, http.StatusBadRequest, kindValidation, fmt.Sprintf("invalid request body: %v", err))
}

func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	return h.logger.With(zap.String("request_id", GetRequestID(r.Context())))
}
