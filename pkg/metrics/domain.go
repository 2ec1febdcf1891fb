package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "depotvente"

// DomainMetrics counts business events: deposits, sales and imports.
type DomainMetrics struct {
	deposits   prometheus.Counter
	exemplars  prometheus.Counter
	sales      *prometheus.CounterVec
	unitsSold  prometheus.Counter
	revenue    prometheus.Counter
	importRows *prometheus.CounterVec
}

// NewDomainMetrics registers the business counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	m := &DomainMetrics{
		deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_created_total",
			Help:      "Deposits recorded.",
		}),
		exemplars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exemplars_deposited_total",
			Help:      "Game copies deposited.",
		}),
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Sales by resulting status.",
		}, []string{"status"}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_sold_total",
			Help:      "Game copies sold through sale details.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_revenue_total",
			Help:      "Sum of sale detail line totals.",
		}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_import_rows_total",
			Help:      "Games CSV rows by outcome.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.deposits, m.exemplars, m.sales, m.unitsSold, m.revenue, m.importRows)
	return m
}

// DepositCreated records a deposit and its copy count.
func (m *DomainMetrics) DepositCreated(exemplars int) {
	if m == nil || m.deposits == nil {
		return
	}
	m.deposits.Inc()
	m.exemplars.Add(float64(exemplars))
}

// SaleStatus records a sale entering the given status.
func (m *DomainMetrics) SaleStatus(status string) {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.WithLabelValues(normalizeLabel(status)).Inc()
}

// ItemsSold records a sale detail.
func (m *DomainMetrics) ItemsSold(quantity int, lineTotal decimal.Decimal) {
	if m == nil || m.unitsSold == nil {
		return
	}
	m.unitsSold.Add(float64(quantity))
	f, _ := lineTotal.Float64()
	if f > 0 {
		m.revenue.Add(f)
	}
}

// ImportRows records the outcome counts of a CSV import. Skipped rows are
// the ones reported as row errors.
func (m *DomainMetrics) ImportRows(created, updated, skipped int) {
	if m == nil || m.importRows == nil {
		return
	}
	m.importRows.WithLabelValues("created").Add(float64(created))
	m.importRows.WithLabelValues("updated").Add(float64(updated))
	m.importRows.WithLabelValues("skipped").Add(float64(skipped))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
