package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  job_url  ", Value: "  https://example.com/job  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "job_url" || fields[0].String != "https://example.com/job" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestRequestFields(t *testing.T) {
	fields := RequestFields(" https://example.com/job ", "resume.docx")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldJobURL || fields[0].String != "https://example.com/job" {
		t.Fatalf("unexpected job url field: %+v", fields[0])
	}

	if fields[1].Key != FieldDocument || fields[1].String != "resume.docx" {
		t.Fatalf("unexpected document field: %+v", fields[1])
	}

	if empty := RequestFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithRequestFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	enriched := WithRequestFields(zap.New(core), "https://example.com/job", "cv.docx")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldJobURL] != "https://example.com/job" {
		t.Fatalf("unexpected job url: %q", ctx[FieldJobURL])
	}
	if ctx[FieldDocument] != "cv.docx" {
		t.Fatalf("unexpected document: %q", ctx[FieldDocument])
	}

	if WithRequestFields(nil, "u", "d") == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}
