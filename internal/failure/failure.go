package failure

import (
	"errors"
	"fmt"
)

// Kind tags a failure reported to the invoking layer.
type Kind string

const (
	// KindFetch covers network errors, timeouts and unusable responses.
	KindFetch Kind = "fetch"
	// KindEmptyJobText means the fetch succeeded but produced no text.
	KindEmptyJobText Kind = "empty_job_text"
	// KindDocumentParse means the uploaded resume could not be read.
	KindDocumentParse Kind = "document_parse"
	// KindNoSkillsSection means the merge found no skills header or no block after it.
	KindNoSkillsSection Kind = "no_skills_section"
)

// Fatal reports whether a failure of this kind halts the current operation.
func (k Kind) Fatal() bool {
	return k != KindNoSkillsSection
}

func (k Kind) String() string { return string(k) }

// Error is a failure with a kind tag.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "fetch job text".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a failure of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
