package vocabulary

import (
	"sort"
	"strings"
)

// defaultTerms are the canonical spellings recognized out of the box.
var defaultTerms = []string{
	"Python", "PowerShell", "Azure", "AWS", "GCP", "Kubernetes", "MLflow", "Kubeflow", "RAG",
	"LLM", "Langchain", "Mistral", "Llama", "GPT-4", "TensorFlow", "PyTorch", "Django",
	"Ansible", "StackStorm", "ADO", "GitHub", "Bitbucket", "Vector DB", "Databricks",
}

// Vocabulary is an immutable set of skill terms. Membership is case-sensitive and exact.
type Vocabulary struct {
	terms map[string]struct{}
}

// New builds a vocabulary from the given terms. Surrounding whitespace is trimmed
// and blank terms are skipped; casing is kept as given.
func New(terms ...string) *Vocabulary {
	v := &Vocabulary{terms: make(map[string]struct{}, len(terms))}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		v.terms[term] = struct{}{}
	}
	return v
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return New(defaultTerms...)
}

// With returns a new vocabulary holding the receiver's terms plus extra.
func (v *Vocabulary) With(extra ...string) *Vocabulary {
	return New(append(v.Terms(), extra...)...)
}

// Contains reports whether term is in the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	if v == nil {
		return false
	}
	_, ok := v.terms[term]
	return ok
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Terms returns the sorted terms.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	terms := make([]string, 0, len(v.terms))
	for term := range v.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
