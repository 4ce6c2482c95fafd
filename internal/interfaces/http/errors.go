package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/live"
	"github.com/jhoicas/Estoque-api/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
	// opaque: el cliente recibe solo el mensaje del sentinel; la causa va al log.
	opaque bool
}

// errorTable traduce errores de dominio a HTTP. El orden importa: PartialDeleteFailure
// puede envolver un conflicto y debe resolverse antes.
var errorTable = []errorMapping{
	{domain.ErrPartialDeleteFailure, fiber.StatusInternalServerError, "PARTIAL_DELETE_FAILURE", true},
	{domain.ErrConcurrencyConflict, fiber.StatusServiceUnavailable, "CONCURRENCY_CONFLICT", true},

	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY", false},
	{domain.ErrInvalidMovementKind, fiber.StatusBadRequest, "INVALID_MOVEMENT_KIND", false},
	{domain.ErrMissingDestination, fiber.StatusBadRequest, "MISSING_DESTINATION", false},
	{domain.ErrMissingSource, fiber.StatusBadRequest, "MISSING_SOURCE", false},
	{domain.ErrSameSourceAndDestination, fiber.StatusBadRequest, "SAME_SOURCE_AND_DESTINATION", false},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", false},

	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", false},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", false},

	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", false},
	{domain.ErrStockNotEmpty, fiber.StatusConflict, "STOCK_NOT_EMPTY", false},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", false},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", false},

	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", false},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", false},

	{live.ErrFeedClosed, fiber.StatusServiceUnavailable, "FEED_CLOSED", true},
}

// StatusFor devuelve el status HTTP y el código de error para err.
func StatusFor(err error) (int, string) {
	status, body, _ := resolve(err)
	return status, body.Code
}

// ErrorBody devuelve el status y el cuerpo que ve el cliente para err.
// Conflictos, borrados parciales y errores internos no exponen el texto de la causa.
func ErrorBody(err error) (int, dto.ErrorResponse) {
	status, body, _ := resolve(err)
	return status, body
}

// resolve indica además si la causa quedó oculta al cliente.
func resolve(err error) (int, dto.ErrorResponse, bool) {
	var notEmpty *domain.StockNotEmptyError
	if errors.As(err, &notEmpty) {
		return fiber.StatusConflict, dto.ErrorResponse{Code: "STOCK_NOT_EMPTY", Message: notEmpty.Error()}, false
	}
	for _, m := range errorTable {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.opaque {
			return m.status, dto.ErrorResponse{Code: m.code, Message: m.target.Error()}, true
		}
		return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}, false
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"}, true
}

// writeError responde con el cuerpo de error estándar y registra la causa cuando se oculta.
func writeError(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Message, Details: verr.Details})
	}
	status, body, hidden := resolve(err)
	if hidden {
		zerolog.Ctx(c.UserContext()).Error().Err(err).
			Str("code", body.Code).Str("method", c.Method()).Str("path", c.Path()).
			Msg("erro na requisição")
	}
	return c.Status(status).JSON(body)
}

// requestLogger deja el logger en el contexto de la petición para writeError.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(log.WithContext(c.UserContext()))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
