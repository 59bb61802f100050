package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTestMetrics(t *testing.T) (*OrderMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewOrderMetricsWithRegisterer(reg), reg
}

func TestNewOrderMetrics(t *testing.T) {
	metrics := NewOrderMetrics()

	if metrics == nil {
		t.Fatal("NewOrderMetrics should not return nil")
	}
	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}
	if metrics.ordersRejected == nil {
		t.Error("ordersRejected counter vec should not be nil")
	}
	if metrics.ordersFulfilled == nil {
		t.Error("ordersFulfilled counter should not be nil")
	}
	if metrics.pendingOrders == nil {
		t.Error("pendingOrders gauge should not be nil")
	}

	// Повторная регистрация в том же реестре возвращает существующие коллекторы.
	again := NewOrderMetrics()
	if again.ordersCreated != metrics.ordersCreated {
		t.Error("expected already registered counter to be reused")
	}
}

func TestRecordOrderCreated(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	metrics.RecordOrderCreated()
	metrics.RecordOrderCreated()

	metric := &dto.Metric{}
	if err := metrics.ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("expected ordersCreated to be 2, got %f", metric.Counter.GetValue())
	}
}

func TestRecordOrderRejected(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	metrics.RecordOrderRejected(RejectDuplicateID)
	metrics.RecordOrderRejected(RejectNoItems)
	metrics.RecordOrderRejected(RejectNoItems)

	metric := &dto.Metric{}
	if err := metrics.ordersRejected.WithLabelValues(RejectNoItems).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("expected no_items rejections to be 2, got %f", metric.Counter.GetValue())
	}
}

func TestRecordOrderFulfilledAndPendingGauge(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	metrics.SetPendingOrders(3)
	metrics.RecordOrderFulfilled()
	metrics.SetPendingOrders(2)

	counter := &dto.Metric{}
	if err := metrics.ordersFulfilled.Write(counter); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if counter.Counter.GetValue() != 1 {
		t.Errorf("expected ordersFulfilled to be 1, got %f", counter.Counter.GetValue())
	}

	gauge := &dto.Metric{}
	if err := metrics.pendingOrders.Write(gauge); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if gauge.Gauge.GetValue() != 2 {
		t.Errorf("expected pendingOrders to be 2, got %f", gauge.Gauge.GetValue())
	}
}

func TestRecordInputRejected(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	metrics.RecordInputRejected("price")

	metric := &dto.Metric{}
	if err := metrics.inputRejected.WithLabelValues("price").Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("expected price rejections to be 1, got %f", metric.Counter.GetValue())
	}
}

func TestRecordStoreDuration(t *testing.T) {
	metrics, reg := newTestMetrics(t)

	metrics.RecordStoreDuration("load", "pending", 2*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "order_tracker_store_duration_seconds" {
			continue
		}
		if got := family.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
			t.Fatalf("expected 1 sample, got %d", got)
		}
		return
	}
	t.Fatal("store duration histogram not gathered")
}

func TestNilMetricsAreNoop(t *testing.T) {
	var metrics *OrderMetrics

	metrics.RecordOrderCreated()
	metrics.RecordOrderRejected(RejectNoItems)
	metrics.RecordOrderFulfilled()
	metrics.RecordInputRejected("quantity")
	metrics.SetPendingOrders(1)
	metrics.RecordStoreDuration("save", "completed", time.Millisecond)
}
