package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics expone contadores del motor de movimentações y del job de estoque baixo.
type StockMetrics struct {
	movements *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	lowStock  *prometheus.GaugeVec
}

// NewStockMetrics registra las métricas de estoque en el registerer. Con reg nil devuelve un no-op.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Movimentações processadas por tipo e resultado.",
	}, []string{"kind", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_conflict_retries_total",
		Help: "Reintentos por conflito de concorrência.",
	}, []string{"operation"})
	lowStock := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stock_low_products",
		Help: "Produtos abaixo do mínimo por empresa e saúde.",
	}, []string{"company_id", "health"})
	reg.MustRegister(movements, conflicts, lowStock)
	return &StockMetrics{
		movements: movements,
		conflicts: conflicts,
		lowStock:  lowStock,
	}
}

// ObserveMovement cuenta una movimentação con su resultado.
func (m *StockMetrics) ObserveMovement(kind, outcome string) {
	if m == nil || m.movements == nil {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// IncConflictRetry cuenta un reintento tras conflicto de concurrencia.
func (m *StockMetrics) IncConflictRetry(operation string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(operation)).Inc()
}

// SetLowStock fija los contadores de productos en near_minimum y critical de una empresa.
func (m *StockMetrics) SetLowStock(companyID string, nearMinimum, critical int) {
	if m == nil || m.lowStock == nil {
		return
	}
	m.lowStock.WithLabelValues(normalizeLabel(companyID), "near_minimum").Set(float64(nearMinimum))
	m.lowStock.WithLabelValues(normalizeLabel(companyID), "critical").Set(float64(critical))
}
