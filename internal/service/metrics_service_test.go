package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
)

type pushedRequest struct {
	method string
	path   string
	body   string
}

func newPushgateway(t *testing.T) (*httptest.Server, <-chan pushedRequest) {
	t.Helper()
	requests := make(chan pushedRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- pushedRequest{method: r.Method, path: r.URL.Path, body: string(body)}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func TestMetricsServiceRecordsRun(t *testing.T) {
	m := NewMetricsService("", "sma_timetable")
	m.RecordProgram(16, 12)
	m.RecordSchedule(models.Schedule{Assignments: make([]models.Assignment, 2), TotalCost: 42.5})
	m.RecordRun(runStatusSucceeded, time.Unix(1700000000, 0))
	m.RecordRun(runStatusFailed, time.Unix(1700000100, 0))
	m.ObserveStage("solve", 250*time.Millisecond)

	assert.Equal(t, 16.0, testutil.ToFloat64(m.variables))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.constraints))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.assignments))
	assert.Equal(t, 42.5, testutil.ToFloat64(m.totalCost))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues(runStatusSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues(runStatusFailed)))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastSuccess))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
}

func TestMetricsServicePushSendsRegistry(t *testing.T) {
	srv, requests := newPushgateway(t)
	m := NewMetricsService(srv.URL, "sma_timetable")
	m.RecordRun(runStatusSucceeded, time.Now())

	require.NoError(t, m.Push(context.Background()))

	req := <-requests
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/metrics/job/sma_timetable", req.path)
	assert.True(t, strings.Contains(req.body, "timetable_runs_total"))
}

func TestMetricsServicePushDisabledWithoutURL(t *testing.T) {
	require.NoError(t, NewMetricsService("", "sma_timetable").Push(context.Background()))

	var nilMetrics *MetricsService
	nilMetrics.RecordRun(runStatusFailed, time.Now())
	assert.NoError(t, nilMetrics.Push(context.Background()))
}

func TestMetricsServicePushReportsGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad push", http.StatusBadRequest)
	}))
	defer srv.Close()

	assert.Error(t, NewMetricsService(srv.URL, "sma_timetable").Push(context.Background()))
}
