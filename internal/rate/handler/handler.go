package handler

import (
	"net/http"

	"ratesync/internal/domain"

	"github.com/goccy/go-json"
)

type StatusReader interface {
	Last() (domain.Report, bool)
}

type RunTrigger interface {
	RunNow() error
}

type Handler struct {
	status  StatusReader
	trigger RunTrigger
}

func NewSyncHandler(status StatusReader, trigger RunTrigger) *Handler {
	return &Handler{status: status, trigger: trigger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
