package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/lazyhunt/internal/failure"
	"github.com/spigell/lazyhunt/internal/render"
)

const (
	kindValidation = "validation"
	kindTooLarge   = "too_large"
	kindInternal   = "internal"
)

// SuccessResponse wraps successful JSON responses.
type SuccessResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, SuccessResponse{Data: data})
}

func Error(w http.ResponseWriter, status int, kind, message string) {
	JSON(w, status, ErrorResponse{Error: message, Kind: kind})
}

// Classify maps an error to its HTTP status and kind tag.
func Classify(err error) (int, string) {
	if kind, ok := failure.KindOf(err); ok {
		switch kind {
		case failure.KindFetch:
			return http.StatusBadGateway, kind.String()
		case failure.KindEmptyJobText:
			return http.StatusUnprocessableEntity, kind.String()
		case failure.KindDocumentParse:
			return http.StatusBadRequest, kind.String()
		default:
			return http.StatusInternalServerError, kind.String()
		}
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, kindTooLarge
	case errors.Is(err, render.ErrInvalidData):
		return http.StatusBadRequest, kindValidation
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

// HandleError logs err and writes the matching error response.
func HandleError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, kind := Classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("kind", kind), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.String("kind", kind), zap.Error(err))
	}
	Error(w, status, kind, err.Error())
}
