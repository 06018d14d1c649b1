package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var wordNamespaces = map[string]bool{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main": true,
	"http://purl.oclc.org/ooxml/wordprocessingml/main":             true,
}

// block is one body paragraph and its byte spans inside word/document.xml.
type block struct {
	text     string
	replaced bool

	start   int // offset of "<w:p"
	openEnd int // offset just past the start tag
	end     int // offset just past "</w:p>"

	props    span // <w:pPr>, if any
	runProps span // <w:rPr> of the first run, if any
}

type span struct {
	start, end int
}

func (s span) slice(content string) string {
	if s.end <= s.start {
		return ""
	}
	return content[s.start:s.end]
}

// Positions of the paragraph's first direct run while scanning.
const (
	runNone = iota
	runFirst
	runAfterFirst
)

// scan finds the direct paragraph children of <w:body>.
func scan(content string) ([]block, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		stack    []xml.Name
		blocks   []block
		current  *block
		text     strings.Builder
		inText   bool
		seenBody bool
		nestedP  int
		pDepth   int
		runState int
	)

	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := xml.Name{}
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name)
			depth := len(stack)

			if !isWord(t.Name) {
				continue
			}

			switch {
			case t.Name.Local == "body":
				seenBody = true
			case current == nil && t.Name.Local == "p" && isWord(parent) && parent.Local == "body":
				current = &block{start: offset, openEnd: int(dec.InputOffset())}
				pDepth = depth
				nestedP = 0
				runState = runNone
				text.Reset()
			case current == nil:
			case t.Name.Local == "p":
				// paragraphs nested in text boxes belong to another story
				nestedP++
			case nestedP > 0:
			case t.Name.Local == "pPr" && depth == pDepth+1:
				current.props.start = offset
			case t.Name.Local == "r" && depth == pDepth+1 && runState == runNone:
				runState = runFirst
			case t.Name.Local == "rPr" && depth == pDepth+2 && runState == runFirst:
				current.runProps.start = offset
			case t.Name.Local == "t":
				inText = inRun(stack)
			case t.Name.Local == "tab" || t.Name.Local == "ptab":
				if inRun(stack) {
					text.WriteString("\t")
				}
			case t.Name.Local == "br" || t.Name.Local == "cr":
				if inRun(stack) {
					text.WriteString("\n")
				}
			case t.Name.Local == "noBreakHyphen":
				if inRun(stack) {
					text.WriteString("-")
				}
			}

		case xml.EndElement:
			depth := len(stack)
			if depth > 0 {
				stack = stack[:depth-1]
			}
			if current == nil || !isWord(t.Name) {
				continue
			}

			end := int(dec.InputOffset())
			switch {
			case t.Name.Local == "p" && depth == pDepth:
				current.end = end
				current.text = text.String()
				blocks = append(blocks, *current)
				current = nil
				inText = false
			case t.Name.Local == "p":
				nestedP--
			case nestedP > 0:
			case t.Name.Local == "pPr" && depth == pDepth+1:
				current.props.end = end
			case t.Name.Local == "rPr" && depth == pDepth+2 && runState == runFirst:
				current.runProps.end = end
			case t.Name.Local == "r" && depth == pDepth+1 && runState == runFirst:
				runState = runAfterFirst
			case t.Name.Local == "t":
				inText = false
			}

		case xml.CharData:
			if current != nil && inText && nestedP == 0 {
				text.Write(t)
			}
		}
	}

	if !seenBody {
		return nil, errors.New("document body not found")
	}

	return blocks, nil
}

func isWord(name xml.Name) bool {
	return wordNamespaces[name.Space]
}

// inRun reports whether the innermost open element sits inside a run.
func inRun(stack []xml.Name) bool {
	for i := len(stack) - 2; i >= 0; i-- {
		if !isWord(stack[i]) {
			continue
		}
		switch stack[i].Local {
		case "r":
			return true
		case "p":
			return false
		}
	}
	return false
}

// rewrite renders the paragraph with its new text as a single run.
func (b block) rewrite(content string) string {
	open := content[b.start:b.openEnd]
	selfClosing := strings.HasSuffix(open, "/>")
	if selfClosing {
		open = strings.TrimRight(strings.TrimSuffix(open, "/>"), " \t\r\n") + ">"
	}

	prefix := elementPrefix(open)
	name := func(local string) string {
		if prefix == "" {
			return local
		}
		return prefix + ":" + local
	}

	var sb strings.Builder
	sb.WriteString(open)
	if !selfClosing {
		sb.WriteString(b.props.slice(content))
	}

	if b.text != "" {
		sb.WriteString("<" + name("r") + ">")
		if !selfClosing {
			sb.WriteString(b.runProps.slice(content))
		}
		writeRunContent(&sb, b.text, name)
		sb.WriteString("</" + name("r") + ">")
	}

	sb.WriteString("</" + name("p") + ">")
	return sb.String()
}

func writeRunContent(sb *strings.Builder, text string, name func(string) string) {
	segment := strings.Builder{}
	flush := func() {
		if segment.Len() == 0 {
			return
		}
		sb.WriteString("<" + name("t") + ` xml:space="preserve">`)
		_ = xml.EscapeText(sb, []byte(segment.String()))
		sb.WriteString("</" + name("t") + ">")
		segment.Reset()
	}

	for _, r := range text {
		switch r {
		case '\n':
			flush()
			sb.WriteString("<" + name("br") + "/>")
		case '\t':
			flush()
			sb.WriteString("<" + name("tab") + "/>")
		default:
			segment.WriteRune(r)
		}
	}
	flush()
}

// elementPrefix returns the namespace prefix of a raw start tag such as `<w:p w:rsidR="1">`.
func elementPrefix(tag string) string {
	tag = strings.TrimPrefix(tag, "<")
	if i := strings.IndexAny(tag, " \t\r\n/>"); i >= 0 {
		tag = tag[:i]
	}
	if i := strings.Index(tag, ":"); i >= 0 {
		return tag[:i]
	}
	return ""
}
