package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// QuantityScale es el número máximo de casas decimales de una cantidad (columnas NUMERIC(18,4)).
const QuantityScale = 4

// maxQuantity es el primer valor que ya no cabe en NUMERIC(18,4).
var maxQuantity = decimal.New(1, 18-QuantityScale)

// CheckQuantity exige una cantidad positiva representable sin redondeo en el almacén.
func CheckQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	if !q.Equal(q.Truncate(QuantityScale)) {
		return fmt.Errorf("%w: no máximo %d casas decimais", domain.ErrInvalidQuantity, QuantityScale)
	}
	if !q.LessThan(maxQuantity) {
		return fmt.Errorf("%w: valor acima do limite", domain.ErrInvalidQuantity)
	}
	return nil
}

// Movement es una solicitud de movimentação ya identificada (producto y localidades).
type Movement struct {
	Kind                  entity.MovementKind
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
}

// Validate aplica las reglas de forma en orden fijo y devuelve el primer error.
// No consulta almacenamiento.
func (m Movement) Validate() error {
	if err := CheckQuantity(m.Quantity); err != nil {
		return err
	}
	switch m.Kind {
	case entity.MovementEntrada:
		if m.DestinationLocationID == "" {
			return domain.ErrMissingDestination
		}
	case entity.MovementSaida:
		if m.SourceLocationID == "" {
			return domain.ErrMissingSource
		}
	case entity.MovementTransferencia:
		if m.SourceLocationID == "" {
			return domain.ErrMissingSource
		}
		if m.DestinationLocationID == "" {
			return domain.ErrMissingDestination
		}
		if m.SourceLocationID == m.DestinationLocationID {
			return domain.ErrSameSourceAndDestination
		}
	default:
		return domain.ErrInvalidMovementKind
	}
	return nil
}

// Source devuelve la localidad de origen relevante para el tipo ("" si no aplica).
func (m Movement) Source() string {
	if m.Kind == entity.MovementEntrada {
		return ""
	}
	return m.SourceLocationID
}

// Destination devuelve la localidad de destino relevante para el tipo ("" si no aplica).
func (m Movement) Destination() string {
	if m.Kind == entity.MovementSaida {
		return ""
	}
	return m.DestinationLocationID
}

// LockOrder devuelve las localidades afectadas ordenadas por id.
// Bloquear siempre en este orden evita deadlocks entre transferencias cruzadas.
func (m Movement) LockOrder() []string {
	ids := make([]string, 0, 2)
	if s := m.Source(); s != "" {
		ids = append(ids, s)
	}
	if d := m.Destination(); d != "" {
		ids = append(ids, d)
	}
	sort.Strings(ids)
	return ids
}

// Apply calcula los nuevos niveles a partir de los leídos dentro de la transacción.
// levels se indexa por LocationID; una entrada nil o ausente significa fila inexistente.
// Devuelve solo las filas modificadas, en el orden de LockOrder. No muta levels.
func (m Movement) Apply(companyID, productID string, levels map[string]*entity.StockLevel) ([]*entity.StockLevel, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	next := make(map[string]*entity.StockLevel, 2)
	if src := m.Source(); src != "" {
		cur := levels[src]
		if cur == nil || cur.Quantity.LessThan(m.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		updated := *cur
		updated.Quantity = cur.Quantity.Sub(m.Quantity)
		next[src] = &updated
	}
	if dst := m.Destination(); dst != "" {
		var updated entity.StockLevel
		if cur := levels[dst]; cur != nil {
			updated = *cur
		} else {
			updated = entity.StockLevel{CompanyID: companyID, ProductID: productID, LocationID: dst, Quantity: decimal.Zero}
		}
		updated.Quantity = updated.Quantity.Add(m.Quantity)
		next[dst] = &updated
	}
	out := make([]*entity.StockLevel, 0, len(next))
	for _, id := range m.LockOrder() {
		out = append(out, next[id])
	}
	return out, nil
}

// LedgerDelta devuelve el efecto de una entrada del histórico sobre una localidad.
func LedgerDelta(e entity.LedgerEntry, locationID string) decimal.Decimal {
	delta := decimal.Zero
	if e.DestinationLocationID == locationID {
		delta = delta.Add(e.Quantity)
	}
	if e.SourceLocationID == locationID {
		delta = delta.Sub(e.Quantity)
	}
	return delta
}
