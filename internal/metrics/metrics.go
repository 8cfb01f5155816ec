package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит счётчики бизнес-операций и гистограмму HTTP-запросов.
// Нулевой указатель безопасен: все методы записи проверяют receiver,
// поэтому в тестах метрики можно не передавать.
type Metrics struct {
	productsCreated  prometheus.Counter
	ordersPlaced     prometheus.Counter
	ordersDiscounted prometheus.Counter
	ordersAccepted   prometheus.Counter
	invoicesIssued   prometheus.Counter
	storeWipes       prometheus.Counter

	requestDuration *prometheus.HistogramVec
}

// New регистрирует метрики в default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registerer
// (в тестах — отдельный registry на кейс).
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		productsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_products_created_total",
			Help: "Total number of catalog products created.",
		}),
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_placed_total",
			Help: "Total number of orders placed.",
		}),
		ordersDiscounted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_discounted_total",
			Help: "Total number of orders placed with the listing-age discount.",
		}),
		ordersAccepted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_accepted_total",
			Help: "Total number of orders accepted by an accountant.",
		}),
		invoicesIssued: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_invoices_issued_total",
			Help: "Total number of invoices issued.",
		}),
		storeWipes: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_store_wipes_total",
			Help: "Total number of full data wipes.",
		}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "ims_http_request_duration_seconds",
			Help:    "Duration of HTTP requests grouped by method, route and status code.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route", "code"}),
	}
}

// ProductCreated учитывает созданные товары (n — размер пакета).
func (m *Metrics) ProductCreated(n int) {
	if m == nil {
		return
	}
	m.productsCreated.Add(float64(n))
}

// OrderPlaced учитывает оформленный заказ и отдельно — скидочный.
func (m *Metrics) OrderPlaced(discounted bool) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	if discounted {
		m.ordersDiscounted.Inc()
	}
}

// OrderAccepted учитывает принятый заказ.
func (m *Metrics) OrderAccepted() {
	if m == nil {
		return
	}
	m.ordersAccepted.Inc()
}

// InvoiceIssued учитывает выставленный счёт.
func (m *Metrics) InvoiceIssued() {
	if m == nil {
		return
	}
	m.invoicesIssued.Inc()
}

// StoreWiped учитывает массовую очистку.
func (m *Metrics) StoreWiped() {
	if m == nil {
		return
	}
	m.storeWipes.Inc()
}

// ObserveRequest записывает длительность HTTP-запроса.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, fmt.Sprintf("%d", code)).Observe(elapsed.Seconds())
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
