package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ratesync/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatus struct{ mock.Mock }

func (m *MockStatus) Last() (domain.Report, bool) {
	args := m.Called()
	r, _ := args.Get(0).(domain.Report)
	return r, args.Bool(1)
}

type MockTrigger struct{ mock.Mock }

func (m *MockTrigger) RunNow() error {
	args := m.Called()
	return args.Error(0)
}

type errorJSON struct {
	Error string `json:"error"`
}

// --- GetStatus ---

func TestHandler_GetStatus_NoRunYet(t *testing.T) {
	mockStatus := new(MockStatus)
	h := NewSyncHandler(mockStatus, new(MockTrigger))

	mockStatus.On("Last").Return(domain.Report{}, false).Once()

	rr := httptest.NewRecorder()
	h.GetStatus(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "no sync run has finished yet", ej.Error)
	mockStatus.AssertExpectations(t)
}

func TestHandler_GetStatus_OK(t *testing.T) {
	mockStatus := new(MockStatus)
	h := NewSyncHandler(mockStatus, new(MockTrigger))

	started := time.Date(2025, 9, 29, 6, 0, 0, 0, time.UTC)
	mockStatus.On("Last").Return(domain.Report{
		ExecID:     "exec-1",
		Date:       "2025-09-29",
		Upserted:   3,
		Created:    1,
		Updated:    2,
		Skipped:    1,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
	}, true).Once()

	rr := httptest.NewRecorder()
	h.GetStatus(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got GetStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "exec-1", got.ExecID)
	require.Equal(t, "2025-09-29", got.Date)
	require.Equal(t, 3, got.Upserted)
	require.Equal(t, 1, got.Skipped)
	require.True(t, started.Equal(got.StartedAt))
	require.Empty(t, got.Error)
	mockStatus.AssertExpectations(t)
}

// --- TriggerRun ---

func TestHandler_TriggerRun_Accepted(t *testing.T) {
	mockTrigger := new(MockTrigger)
	h := NewSyncHandler(new(MockStatus), mockTrigger)

	mockTrigger.On("RunNow").Return(nil).Once()

	rr := httptest.NewRecorder()
	h.TriggerRun(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sync/runs", nil))

	require.Equal(t, http.StatusAccepted, rr.Code)
	var got TriggerRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "accepted", got.Status)
	mockTrigger.AssertExpectations(t)
}

func TestHandler_TriggerRun_Error(t *testing.T) {
	mockTrigger := new(MockTrigger)
	h := NewSyncHandler(new(MockStatus), mockTrigger)

	mockTrigger.On("RunNow").Return(errors.New("scheduler is not started")).Once()

	rr := httptest.NewRecorder()
	h.TriggerRun(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sync/runs", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "failed to trigger sync run", ej.Error)
	mockTrigger.AssertExpectations(t)
}
