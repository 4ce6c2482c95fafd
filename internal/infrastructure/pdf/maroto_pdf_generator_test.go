package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/pdf"
)

func TestFormatQuantity(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"25000":    "25.000",
		"1234.5":   "1.234,5",
		"1000000":  "1.000.000",
		"12.3400":  "12,34",
		"-1500.25": "-1.500,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatQuantity(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateStockByLocation_GeneraPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	report := &dto.StockByLocationResponse{
		LocationID:   "11111111-1111-1111-1111-111111111111",
		LocationName: "Almoxarifado Central",
		GeneratedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []dto.StockByLocationRow{
			{ProductID: "p1", ProductName: "Cimento", Unit: "saco", ManufacturerName: "Votoran", Quantity: decimal.NewFromInt(40)},
			{ProductID: "p2", ProductName: "Areia", Unit: "m3", Quantity: decimal.RequireFromString("2.5")},
		},
	}

	out, err := g.GenerateStockByLocation(report, "Construtora X")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockByLocation_SinItems(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	out, err := g.GenerateStockByLocation(&dto.StockByLocationResponse{
		LocationID:  "l1",
		GeneratedAt: time.Now(),
	}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateStockByLocation_Nil(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateStockByLocation(nil, "x")
	assert.Error(t, err)
}
