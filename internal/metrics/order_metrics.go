package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отклонения заказа для метки reason.
const (
	RejectDuplicateID = "duplicate_id"
	RejectNoItems     = "no_items"
)

// OrderMetrics содержит метрики операций над заказами.
// Nil-указатель допустим: все Record-методы тогда ничего не делают.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	ordersRejected  *prometheus.CounterVec
	ordersFulfilled prometheus.Counter

	// Ошибки ввода, вылеченные повторным запросом.
	inputRejected *prometheus.CounterVec

	// Размер коллекции ожидающих заказов после последней загрузки/записи.
	pendingOrders prometheus.Gauge

	storeDuration *prometheus.HistogramVec
}

// NewOrderMetrics создаёт метрики в DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer создаёт метрики в указанном registerer (изолированный реестр в тестах).
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "order_tracker_orders_created_total",
			Help: "Total number of orders added to the pending collection",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "order_tracker_orders_rejected_total",
			Help: "Total number of orders rejected before creation",
		}, []string{"reason"}),
		ordersFulfilled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "order_tracker_orders_fulfilled_total",
			Help: "Total number of orders moved to the completed collection",
		}),
		inputRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "order_tracker_input_rejected_total",
			Help: "Total number of console inputs rejected by validation",
		}, []string{"field"}),
		pendingOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "order_tracker_pending_orders",
			Help: "Number of orders in the pending collection",
		}),
		storeDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "order_tracker_store_duration_seconds",
			Help:    "Duration of collection store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"op", "collection"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderRejected увеличивает счётчик отклонённых заказов с причиной reason.
func (m *OrderMetrics) RecordOrderRejected(reason string) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordOrderFulfilled увеличивает счётчик выданных заказов.
func (m *OrderMetrics) RecordOrderFulfilled() {
	if m == nil {
		return
	}
	m.ordersFulfilled.Inc()
}

// RecordInputRejected учитывает ввод, отклонённый валидатором поля field.
func (m *OrderMetrics) RecordInputRejected(field string) {
	if m == nil {
		return
	}
	m.inputRejected.WithLabelValues(field).Inc()
}

// SetPendingOrders фиксирует текущий размер коллекции ожидающих заказов.
func (m *OrderMetrics) SetPendingOrders(count int) {
	if m == nil {
		return
	}
	m.pendingOrders.Set(float64(count))
}

// RecordStoreDuration записывает время операции хранилища.
func (m *OrderMetrics) RecordStoreDuration(op, collection string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op, collection).Observe(duration.Seconds())
}
