package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestQueueMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewQueueMetrics(reg)
	metrics.IncTokensIssued()
	metrics.IncTokensIssued()
	metrics.IncVisitsFinished()
	metrics.IncVisitsCancelled()
	metrics.IncSlotFull()
	metrics.IncInvalidOTP()
	metrics.IncIssuanceConflict()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	cases := map[string]float64{
		"queue_tokens_issued_total":        2,
		"queue_visits_finished_total":      1,
		"queue_visits_cancelled_total":     1,
		"queue_slot_full_rejections_total": 1,
		"queue_invalid_otp_attempts_total": 1,
		"queue_issuance_conflicts_total":   1,
	}
	for name, want := range cases {
		got, err := fetchCounterValue(mfs, name)
		if err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("expected %s=%f, got %f", name, want, got)
		}
	}
}

func TestQueueMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewQueueMetrics(nil)
	metrics.IncTokensIssued()
	metrics.IncVisitsFinished()
	metrics.IncVisitsCancelled()
	metrics.IncSlotFull()
	metrics.IncInvalidOTP()
	metrics.IncIssuanceConflict()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
