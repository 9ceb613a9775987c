package handler

import (
	"net/http"
	"time"
)

type GetStatusResponse struct {
	ExecID     string    `json:"exec_id" example:"6f1c2a4e-8d53-4c0b-9a57-1f2e3d4c5b6a"`
	Date       string    `json:"date" example:"2025-09-29"`
	Upserted   int       `json:"upserted" example:"30"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// GetStatus godoc
// @Summary Last sync run
// @Description Report of the most recently finished sync run
// @Tags Sync
// @Produce json
// @Success 200 {object} GetStatusResponse
// @Failure 404 {object} errorResponse
// @Router /sync/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	report, ok := h.status.Last()
	if !ok {
		writeError(w, http.StatusNotFound, "no sync run has finished yet")
		return
	}

	writeJSON(w, http.StatusOK, GetStatusResponse{
		ExecID:     report.ExecID,
		Date:       report.Date,
		Upserted:   report.Upserted,
		Created:    report.Created,
		Updated:    report.Updated,
		Skipped:    report.Skipped,
		Failed:     report.Failed,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Error:      report.Error,
	})
}
