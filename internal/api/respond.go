package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

// Every endpoint answers with the same envelope: a status word, a human
// message, an RFC3339 timestamp and, on success, the payload under data.
type successEnvelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type errorEnvelope struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, message string, data interface{}) {
	respond(w, http.StatusOK, message, data)
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	respond(w, http.StatusCreated, message, data)
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, successEnvelope{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(w http.ResponseWriter, status int, message, errorCode string) {
	writeJSON(w, status, errorEnvelope{
		Status:    "error",
		Message:   message,
		ErrorCode: errorCode,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondServiceError translates a service error into the HTTP status and
// errorCode the frontend switches on. Unknown errors are logged and come back
// as a bare 500 so internals never leak.
func respondServiceError(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	switch se.Code {
	case services.ErrorScopeRequired:
		respondError(w, http.StatusBadRequest, se.Message, "INVALID_ORGANISATION_ID")
	case services.ErrorInvalidDateRange:
		respondError(w, http.StatusBadRequest, se.Message, "INVALID_DATE_RANGE")
	case services.ErrorInvalidFilter, services.ErrorInvalid:
		respondError(w, http.StatusBadRequest, se.Message, "VALIDATION_ERROR")
	case services.ErrorUnauthorized:
		respondError(w, http.StatusUnauthorized, se.Message, "UNAUTHORIZED")
	case services.ErrorForbidden:
		respondError(w, http.StatusForbidden, se.Message, "INSUFFICIENT_PERMISSIONS")
	case services.ErrorNotFound:
		respondError(w, http.StatusNotFound, se.Message, "NOT_FOUND")
	case services.ErrorConflict:
		respondError(w, http.StatusConflict, se.Message, "CONFLICT")
	case services.ErrorDataUnavailable:
		log.Printf("store error: %v", err)
		respondError(w, http.StatusInternalServerError, se.Message, "DATABASE_ERROR")
	default:
		log.Printf("unmapped service error %q: %v", se.Code, err)
		respondError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
