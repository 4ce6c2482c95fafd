package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Estoque-api/internal/domain"
	apphttp "github.com/jhoicas/Estoque-api/internal/interfaces/http"
)

func TestStatusFor_TablaDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"cantidad", domain.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"tipo", domain.ErrInvalidMovementKind, http.StatusBadRequest, "INVALID_MOVEMENT_KIND"},
		{"destino", domain.ErrMissingDestination, http.StatusBadRequest, "MISSING_DESTINATION"},
		{"origen", domain.ErrMissingSource, http.StatusBadRequest, "MISSING_SOURCE"},
		{"mismo lugar", domain.ErrSameSourceAndDestination, http.StatusBadRequest, "SAME_SOURCE_AND_DESTINATION"},
		{"no encontrado", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"insuficiente", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"con saldo", &domain.StockNotEmptyError{Quantity: decimal.NewFromInt(3)}, http.StatusConflict, "STOCK_NOT_EMPTY"},
		{"duplicado", domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{"conflicto", domain.ErrConcurrencyConflict, http.StatusServiceUnavailable, "CONCURRENCY_CONFLICT"},
		{"conflicto envuelto", fmt.Errorf("tx: %w", domain.ErrConcurrencyConflict), http.StatusServiceUnavailable, "CONCURRENCY_CONFLICT"},
		{"borrado parcial", domain.ErrPartialDeleteFailure, http.StatusInternalServerError, "PARTIAL_DELETE_FAILURE"},
		{"no autorizado", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"desconocido", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := apphttp.StatusFor(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestStatusFor_BorradoParcialGanaAConflicto(t *testing.T) {
	err := fmt.Errorf("%w: %w", domain.ErrPartialDeleteFailure, domain.ErrConcurrencyConflict)
	status, code := apphttp.StatusFor(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "PARTIAL_DELETE_FAILURE", code)
}

func TestErrorBody_OcultaCausaDeInfraestructura(t *testing.T) {
	pgErr := errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"conflicto", fmt.Errorf("%w: commit: %v", domain.ErrConcurrencyConflict, pgErr), domain.ErrConcurrencyConflict.Error()},
		{"borrado parcial", fmt.Errorf("%w: %w", domain.ErrPartialDeleteFailure, fmt.Errorf("%w: tx: %v", domain.ErrConcurrencyConflict, pgErr)), domain.ErrPartialDeleteFailure.Error()},
		{"interno", fmt.Errorf("list products: %w", pgErr), "erro interno"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, body := apphttp.ErrorBody(tc.err)
			assert.Equal(t, tc.want, body.Message)
			assert.NotContains(t, body.Message, "SQLSTATE")
		})
	}
}

func TestErrorBody_ConservaMensajesDeDominio(t *testing.T) {
	status, body := apphttp.ErrorBody(&domain.StockNotEmptyError{Quantity: decimal.NewFromInt(7), Unit: "kg"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "STOCK_NOT_EMPTY", body.Code)
	assert.Contains(t, body.Message, "ainda há 7 kg")

	_, body = apphttp.ErrorBody(fmt.Errorf("%w: categoria", domain.ErrNotFound))
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Contains(t, body.Message, "categoria")
}
