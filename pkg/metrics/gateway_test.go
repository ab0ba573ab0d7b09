package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestGatewayMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewGatewayMetrics(reg)
	metrics.ObserveDuration("PerformTransaction", 120*time.Millisecond)
	metrics.IncCallback("PerformTransaction", "0")
	metrics.IncCallback("PerformTransaction", "0")
	metrics.IncCallback("CheckTransaction", "303")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "gateway_callbacks_total", "code", "0"); err != nil {
		t.Fatalf("fetch perform counter: %v", err)
	} else if got != 2 {
		t.Fatalf("expected perform count=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "gateway_callbacks_total", "code", "303"); err != nil {
		t.Fatalf("fetch check counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected check count=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "gateway_callback_duration_seconds", "method", "PerformTransaction"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestGatewayMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewGatewayMetrics(nil)
	metrics.ObserveDuration("CheckTransaction", time.Second)
	metrics.IncCallback("", "")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
