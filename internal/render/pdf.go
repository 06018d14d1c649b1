// Package render lays out resume data as an A4 PDF.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// MIMEType is the content type of rendered resumes.
const MIMEType = "application/pdf"

const (
	fontFamily = "Helvetica"

	marginLeft   = 72.0
	marginTop    = 72.0
	marginRight  = 72.0
	marginBottom = 18.0

	headerSize, headerLeading, headerAfter          = 18.0, 22.0, 10.0
	subHeaderSize, subHeaderLeading, subHeaderAfter = 13.0, 16.0, 6.0
	listSize, listLeading, listAfter                = 10.5, 14.0, 6.0
	normalSize, normalLeading                       = 10.0, 12.0

	bullet = "• "
)

type Renderer struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// Render writes data as a PDF to w.
func (r *Renderer) Render(data *Data, w io.Writer) error {
	if data == nil {
		return fmt.Errorf("%w: no data", ErrInvalidData)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(data.Name, true)
	pdf.SetCreator("lazyhunt", false)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()

	l.paragraph(data.Name, headerSize, headerLeading, headerAfter, "C")
	l.paragraph(data.Contact(), normalSize, normalLeading, 0, "C")
	pdf.Ln(12)

	l.subHeader("Professional Summary")
	l.item(data.Summary)

	l.subHeader("Experience")
	for _, exp := range data.Experience {
		l.item(exp.Heading())
		for _, task := range exp.Lines() {
			l.item(bullet + task)
		}
		pdf.Ln(6)
	}

	l.subHeader("Education")
	for _, edu := range data.Education {
		l.item(edu.Line())
	}

	l.subHeader("Skills")
	l.item(strings.Join(data.Skills, ", "))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	r.logger.Debug("resume rendered",
		zap.Int("pages", pdf.PageNo()),
		zap.Int("experience", len(data.Experience)),
		zap.Int("education", len(data.Education)),
		zap.Int("skills", len(data.Skills)),
	)

	return nil
}

// Bytes renders data into memory.
func (r *Renderer) Bytes(data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(data, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders data into path.
func (r *Renderer) WriteFile(data *Data, path string) error {
	out, err := r.Bytes(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteTemp renders data into a new resume_*.pdf temp file and returns its name.
func (r *Renderer) WriteTemp(data *Data) (string, error) {
	out, err := r.Bytes(data)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", "resume_*.pdf")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(out); err != nil {
		return "", err
	}
	return file.Name(), nil
}

type layout struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (l *layout) paragraph(text string, size, leading, after float64, align string) {
	l.pdf.SetFont(fontFamily, "", size)
	l.pdf.MultiCell(0, leading, l.tr(text), "", align, false)
	if after > 0 {
		l.pdf.Ln(after)
	}
}

func (l *layout) subHeader(text string) {
	l.paragraph(text, subHeaderSize, subHeaderLeading, subHeaderAfter, "L")
}

func (l *layout) item(text string) {
	l.paragraph(text, listSize, listLeading, listAfter, "L")
}
