package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/noah-isme/sma-timetable/internal/models"
)

// MetricsService collects run instrumentation in a private registry and hands it to a Pushgateway.
type MetricsService struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	runsTotal     *prometheus.CounterVec
	variables     prometheus.Gauge
	constraints   prometheus.Gauge
	assignments   prometheus.Gauge
	totalCost     prometheus.Gauge
	lastSuccess   prometheus.Gauge
	gatewayURL    string
	job           string
}

// NewMetricsService registers the timetable collectors. An empty gatewayURL turns Push into a no-op.
func NewMetricsService(gatewayURL, job string) *MetricsService {
	registry := prometheus.NewRegistry()

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_stage_duration_seconds",
		Help:    "Duration of each pipeline stage in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total number of timetable runs by outcome",
	}, []string{"status"})

	variables := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_decision_variables",
		Help: "Binary decision variables in the last built program",
	})

	constraints := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_constraints",
		Help: "Constraint rows in the last built program",
	})

	assignments := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_assignments",
		Help: "Assignments in the last solved schedule",
	})

	totalCost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_total_cost",
		Help: "Total cost of the last solved schedule",
	})

	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	})

	registry.MustRegister(stageDuration, runsTotal, variables, constraints, assignments, totalCost, lastSuccess)

	return &MetricsService{
		registry:      registry,
		stageDuration: stageDuration,
		runsTotal:     runsTotal,
		variables:     variables,
		constraints:   constraints,
		assignments:   assignments,
		totalCost:     totalCost,
		lastSuccess:   lastSuccess,
		gatewayURL:    gatewayURL,
		job:           job,
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *MetricsService) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordProgram records the size of the built program.
func (m *MetricsService) RecordProgram(variables, constraints int) {
	if m == nil {
		return
	}
	m.variables.Set(float64(variables))
	m.constraints.Set(float64(constraints))
}

// RecordSchedule records the solved schedule.
func (m *MetricsService) RecordSchedule(schedule models.Schedule) {
	if m == nil {
		return
	}
	m.assignments.Set(float64(len(schedule.Assignments)))
	m.totalCost.Set(schedule.TotalCost)
}

// RecordRun counts a finished run by status.
func (m *MetricsService) RecordRun(status string, at time.Time) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	if status == runStatusSucceeded {
		m.lastSuccess.Set(float64(at.Unix()))
	}
}

// Push sends every collector to the Pushgateway, replacing the job's previous metrics.
func (m *MetricsService) Push(ctx context.Context) error {
	if m == nil || m.gatewayURL == "" {
		return nil
	}
	return push.New(m.gatewayURL, m.job).Gatherer(m.registry).PushContext(ctx)
}
