package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type TriggerRunResponse struct {
	Status string `json:"status" example:"accepted"`
}

// TriggerRun godoc
// @Summary Trigger a sync run
// @Description Starts a sync run outside the schedule. Runs never overlap.
// @Tags Sync
// @Produce json
// @Success 202 {object} TriggerRunResponse
// @Failure 503 {object} errorResponse
// @Router /sync/runs [post]
func (h *Handler) TriggerRun(w http.ResponseWriter, _ *http.Request) {
	if err := h.trigger.RunNow(); err != nil {
		logrus.WithError(err).WithField("handler", "TriggerRun").Error("sync run wasn't triggered")
		writeError(w, http.StatusServiceUnavailable, "failed to trigger sync run")
		return
	}
	writeJSON(w, http.StatusAccepted, TriggerRunResponse{Status: "accepted"})
}
