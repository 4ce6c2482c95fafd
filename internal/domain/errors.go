package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas de infraestructura).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o email já está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")

	// Movimentações de estoque.
	ErrInvalidQuantity          = errors.New("a quantidade deve ser maior que zero")
	ErrInvalidMovementKind      = errors.New("tipo de movimentação inválido")
	ErrMissingDestination       = errors.New("selecione a localidade de destino")
	ErrMissingSource            = errors.New("selecione a localidade de origem")
	ErrSameSourceAndDestination = errors.New("origem e destino devem ser diferentes")
	ErrInsufficientStock        = errors.New("estoque insuficiente na origem")
	ErrConcurrencyConflict      = errors.New("conflito de concorrência: o estoque foi alterado por outra operação, tente novamente")

	// Exclusão de produtos.
	ErrStockNotEmpty        = errors.New("não é possível excluir: ainda há unidades em estoque")
	ErrPartialDeleteFailure = errors.New("falha ao excluir o produto: nenhuma alteração foi aplicada")
)

// StockNotEmptyError detalla la cantidad que impide eliminar un producto.
// errors.Is(err, ErrStockNotEmpty) es verdadero.
type StockNotEmptyError struct {
	Quantity decimal.Decimal
	Unit     string
}

func (e *StockNotEmptyError) Error() string {
	unit := e.Unit
	if unit == "" {
		unit = "unidade(s)"
	}
	return fmt.Sprintf("não é possível excluir: ainda há %s %s em estoque", e.Quantity.String(), unit)
}

func (e *StockNotEmptyError) Unwrap() error { return ErrStockNotEmpty }
