package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/inventory"
)

const (
	testCompany = "c-1"
	testProduct = "p-1"
	locA        = "loc-a"
	locB        = "loc-b"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func level(loc string, q int64) *entity.StockLevel {
	return &entity.StockLevel{CompanyID: testCompany, ProductID: testProduct, LocationID: loc, Quantity: qty(q), Version: 1}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de forma
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementValidate_Tabla(t *testing.T) {
	cases := []struct {
		name string
		mov  inventory.Movement
		want error
	}{
		{"cantidad cero", inventory.Movement{Kind: entity.MovementEntrada, Quantity: qty(0), DestinationLocationID: locA}, domain.ErrInvalidQuantity},
		{"cantidad negativa", inventory.Movement{Kind: entity.MovementSaida, Quantity: qty(-3), SourceLocationID: locA}, domain.ErrInvalidQuantity},
		{"más de cuatro decimales", inventory.Movement{Kind: entity.MovementSaida, Quantity: decimal.RequireFromString("0.00005"), SourceLocationID: locA}, domain.ErrInvalidQuantity},
		{"redondearía a cero", inventory.Movement{Kind: entity.MovementEntrada, Quantity: decimal.RequireFromString("0.00001"), DestinationLocationID: locA}, domain.ErrInvalidQuantity},
		{"fuera de precisión", inventory.Movement{Kind: entity.MovementEntrada, Quantity: decimal.New(1, 14), DestinationLocationID: locA}, domain.ErrInvalidQuantity},
		{"cantidad antes que tipo", inventory.Movement{Kind: "AJUSTE", Quantity: qty(0)}, domain.ErrInvalidQuantity},
		{"tipo desconocido", inventory.Movement{Kind: "AJUSTE", Quantity: qty(1)}, domain.ErrInvalidMovementKind},
		{"entrada sin destino", inventory.Movement{Kind: entity.MovementEntrada, Quantity: qty(1), SourceLocationID: locA}, domain.ErrMissingDestination},
		{"saida sin origen", inventory.Movement{Kind: entity.MovementSaida, Quantity: qty(1), DestinationLocationID: locA}, domain.ErrMissingSource},
		{"transferencia sin origen", inventory.Movement{Kind: entity.MovementTransferencia, Quantity: qty(1), DestinationLocationID: locA}, domain.ErrMissingSource},
		{"transferencia sin destino", inventory.Movement{Kind: entity.MovementTransferencia, Quantity: qty(1), SourceLocationID: locA}, domain.ErrMissingDestination},
		{"transferencia misma localidad", inventory.Movement{Kind: entity.MovementTransferencia, Quantity: qty(1), SourceLocationID: locA, DestinationLocationID: locA}, domain.ErrSameSourceAndDestination},
		{"entrada válida", inventory.Movement{Kind: entity.MovementEntrada, Quantity: decimal.RequireFromString("0.5"), DestinationLocationID: locA}, nil},
		{"cuatro decimales con ceros a la derecha", inventory.Movement{Kind: entity.MovementEntrada, Quantity: decimal.RequireFromString("1.250000"), DestinationLocationID: locA}, nil},
		{"saida válida", inventory.Movement{Kind: entity.MovementSaida, Quantity: qty(1), SourceLocationID: locA}, nil},
		{"transferencia válida", inventory.Movement{Kind: entity.MovementTransferencia, Quantity: qty(1), SourceLocationID: locA, DestinationLocationID: locB}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mov.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMovementLockOrder_OrdenDeterminista(t *testing.T) {
	m := inventory.Movement{Kind: entity.MovementTransferencia, Quantity: qty(1), SourceLocationID: "z", DestinationLocationID: "a"}
	assert.Equal(t, []string{"a", "z"}, m.LockOrder())

	entrada := inventory.Movement{Kind: entity.MovementEntrada, Quantity: qty(1), SourceLocationID: "ignorado", DestinationLocationID: "d"}
	assert.Equal(t, []string{"d"}, entrada.LockOrder(), "ENTRADA solo toca el destino")
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación de deltas
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementApply_EntradaCreaFila(t *testing.T) {
	m := inventory.Movement{Kind: entity.MovementEntrada, Quantity: qty(50), DestinationLocationID: locA}
	out, err := m.Apply(testCompany, testProduct, map[string]*entity.StockLevel{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].IsNew())
	assert.True(t, out[0].Quantity.Equal(qty(50)))
	assert.Equal(t, locA, out[0].LocationID)
}

func TestMovementApply_SaidaInsuficienteNoMuta(t *testing.T) {
	levels := map[string]*entity.StockLevel{locA: level(locA, 30)}
	m := inventory.Movement{Kind: entity.MovementSaida, Quantity: qty(40), SourceLocationID: locA}

	_, err := m.Apply(testCompany, testProduct, levels)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, levels[locA].Quantity.Equal(qty(30)), "el mapa de entrada no debe mutarse")
}

func TestMovementApply_SaidaSinFilaEsInsuficiente(t *testing.T) {
	m := inventory.Movement{Kind: entity.MovementSaida, Quantity: qty(1), SourceLocationID: locA}
	_, err := m.Apply(testCompany, testProduct, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestMovementApply_Transferencia(t *testing.T) {
	levels := map[string]*entity.StockLevel{locA: level(locA, 30)}
	m := inventory.Movement{Kind: entity.MovementTransferencia, Quantity: qty(10), SourceLocationID: locA, DestinationLocationID: locB}

	out, err := m.Apply(testCompany, testProduct, levels)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, locA, out[0].LocationID)
	assert.True(t, out[0].Quantity.Equal(qty(20)))
	assert.Equal(t, locB, out[1].LocationID)
	assert.True(t, out[1].Quantity.Equal(qty(10)))
}

func TestMovementApply_SaidaTotalDejaCero(t *testing.T) {
	levels := map[string]*entity.StockLevel{locA: level(locA, 7)}
	m := inventory.Movement{Kind: entity.MovementSaida, Quantity: qty(7), SourceLocationID: locA}
	out, err := m.Apply(testCompany, testProduct, levels)
	require.NoError(t, err)
	assert.True(t, out[0].Quantity.IsZero(), "la fila persiste en cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades: no-negatividad y consistencia histórico/niveles
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementApply_SecuenciasAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	locations := []string{"l1", "l2", "l3"}
	kinds := []entity.MovementKind{entity.MovementEntrada, entity.MovementSaida, entity.MovementTransferencia}

	levels := map[string]*entity.StockLevel{}
	var ledger []entity.LedgerEntry

	for i := 0; i < 2000; i++ {
		m := inventory.Movement{
			Kind:                  kinds[rng.Intn(len(kinds))],
			Quantity:              qty(int64(rng.Intn(12))),
			SourceLocationID:      locations[rng.Intn(len(locations))],
			DestinationLocationID: locations[rng.Intn(len(locations))],
		}
		out, err := m.Apply(testCompany, testProduct, levels)
		if err != nil {
			continue
		}
		for _, l := range out {
			require.False(t, l.Quantity.IsNegative(), "cantidad negativa en %s tras %d movimientos", l.LocationID, i)
			l.Version++
			levels[l.LocationID] = l
		}
		ledger = append(ledger, entity.LedgerEntry{
			ProductID: testProduct, Kind: m.Kind, Quantity: m.Quantity,
			SourceLocationID: m.Source(), DestinationLocationID: m.Destination(),
		})
	}

	for _, loc := range locations {
		net := decimal.Zero
		for _, e := range ledger {
			net = net.Add(inventory.LedgerDelta(e, loc))
		}
		cur := decimal.Zero
		if l := levels[loc]; l != nil {
			cur = l.Quantity
		}
		assert.True(t, net.Equal(cur), "histórico y nivel divergen en %s: %s != %s", loc, net, cur)
	}
}
