package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldJobURL is the structured log field key for the job posting URL.
	FieldJobURL = "job_url"
	// FieldDocument is the structured log field key for the resume document name.
	FieldDocument = "document"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RequestFields returns the fields describing one skills update request.
// Empty values are ignored.
func RequestFields(jobURL, document string) []zap.Field {
	return StringFields(
		StringField{Key: FieldJobURL, Value: jobURL},
		StringField{Key: FieldDocument, Value: document},
	)
}

// WithRequestFields attaches the request fields to the provided logger.
func WithRequestFields(logger *zap.Logger, jobURL, document string) *zap.Logger {
	return WithFields(logger, RequestFields(jobURL, document)...)
}
