package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// Health clasifica el stock total frente al estoqueMinimo.
type Health string

const (
	HealthHealthy     Health = "healthy"
	HealthNearMinimum Health = "near_minimum"
	HealthCritical    Health = "critical"
)

var two = decimal.NewFromInt(2)

// TotalStock suma las cantidades de productID en todas las localidades.
func TotalStock(levels []entity.StockLevel, productID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range levels {
		if l.ProductID == productID {
			total = total.Add(l.Quantity)
		}
	}
	return total
}

// ClassifyHealth: crítico si total <= mínimo/2, próximo del mínimo si total < mínimo,
// saudável en otro caso. Mínimo cero o negativo nunca alerta.
func ClassifyHealth(total, minimum decimal.Decimal) Health {
	if !minimum.IsPositive() {
		return HealthHealthy
	}
	if total.LessThanOrEqual(minimum.Div(two)) {
		return HealthCritical
	}
	if total.LessThan(minimum) {
		return HealthNearMinimum
	}
	return HealthHealthy
}

// ProductSummary es la vista agregada de un producto.
type ProductSummary struct {
	Product *entity.Product
	Total   decimal.Decimal
	Health  Health
	Deficit decimal.Decimal // mínimo - total, cero si no hay déficit
}

// Summaries agrega los niveles por producto. Productos sin filas tienen total cero.
func Summaries(products []*entity.Product, levels []entity.StockLevel) []ProductSummary {
	totals := make(map[string]decimal.Decimal, len(products))
	for _, l := range levels {
		totals[l.ProductID] = totals[l.ProductID].Add(l.Quantity)
	}
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		total := totals[p.ID]
		deficit := p.MinimumStock.Sub(total)
		if deficit.IsNegative() {
			deficit = decimal.Zero
		}
		out = append(out, ProductSummary{
			Product: p,
			Total:   total,
			Health:  ClassifyHealth(total, p.MinimumStock),
			Deficit: deficit,
		})
	}
	return out
}

// LowStock filtra los resúmenes críticos o próximos del mínimo, mayor déficit primero.
func LowStock(summaries []ProductSummary) []ProductSummary {
	out := make([]ProductSummary, 0)
	for _, s := range summaries {
		if s.Health != HealthHealthy {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Deficit.Cmp(out[j].Deficit); c != 0 {
			return c > 0
		}
		return out[i].Product.Name < out[j].Product.Name
	})
	return out
}
