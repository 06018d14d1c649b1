// Package document models a .docx resume as an ordered list of body paragraphs.
//
// Only the paragraph text of word/document.xml is interpreted. A rewritten paragraph
// is spliced back into the original XML, so every other byte of the part, and every
// other part of the package, is written out as it was read.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/nguyenthenguyen/docx"

	"github.com/spigell/lazyhunt/internal/failure"
)

// MIMEType is the content type of documents produced by Save.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrIndexOutOfRange is returned when a paragraph index does not exist.
var ErrIndexOutOfRange = errors.New("paragraph index out of range")

// Document is an immutable view of a .docx body. ReplaceText returns a new Document
// and leaves the receiver untouched.
type Document struct {
	source  *docx.ReplaceDocx
	content string
	blocks  []block
}

// Load parses a .docx package. Any failure is a document_parse failure.
func Load(data []byte) (*Document, error) {
	source, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, failure.New(failure.KindDocumentParse, "read resume", err)
	}

	content := source.Editable().GetContent()
	blocks, err := scan(content)
	if err != nil {
		source.Close()
		return nil, failure.New(failure.KindDocumentParse, "read resume paragraphs", err)
	}

	return &Document{
		source:  source,
		content: content,
		blocks:  blocks,
	}, nil
}

// ReadFrom loads a document from r.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, failure.New(failure.KindDocumentParse, "read resume", err)
	}
	return Load(data)
}

// Len returns the number of body paragraphs.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Text returns the text of paragraph i, or "" when i is out of range.
func (d *Document) Text(i int) string {
	if i < 0 || i >= len(d.blocks) {
		return ""
	}
	return d.blocks[i].text
}

// Texts returns the text of every paragraph in order.
func (d *Document) Texts() []string {
	texts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		texts[i] = b.text
	}
	return texts
}

// Modified reports whether any paragraph was replaced.
func (d *Document) Modified() bool {
	for _, b := range d.blocks {
		if b.replaced {
			return true
		}
	}
	return false
}

// ReplaceText returns a copy of d with the text of paragraph i set to text.
// The paragraph keeps its properties and the formatting of its first run.
func (d *Document) ReplaceText(i int, text string) (*Document, error) {
	if i < 0 || i >= len(d.blocks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(d.blocks))
	}

	blocks := make([]block, len(d.blocks))
	copy(blocks, d.blocks)
	blocks[i].text = text
	blocks[i].replaced = true

	return &Document{
		source:  d.source,
		content: d.content,
		blocks:  blocks,
	}, nil
}

// Save writes the document as a .docx package.
func (d *Document) Save(w io.Writer) error {
	editable := d.source.Editable()
	editable.SetContent(d.render())
	if err := editable.Write(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases the underlying package. Documents derived through ReplaceText share it.
func (d *Document) Close() error {
	return d.source.Close()
}

// render splices replaced paragraphs into the original XML.
func (d *Document) render() string {
	if !d.Modified() {
		return d.content
	}

	var out bytes.Buffer
	last := 0
	for _, b := range d.blocks {
		if !b.replaced {
			continue
		}
		out.WriteString(d.content[last:b.start])
		out.WriteString(b.rewrite(d.content))
		last = b.end
	}
	out.WriteString(d.content[last:])

	return out.String()
}
