package http

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/redis"
)

// IdempotencyHeader es el header que identifica reintentos de una misma escritura.
const IdempotencyHeader = "Idempotency-Key"

// IdempotencyStore guarda respuestas por clave (implementado sobre Redis).
type IdempotencyStore interface {
	Get(ctx context.Context, companyID, key string) (*redis.StoredResponse, error)
	Reserve(ctx context.Context, companyID, key, requestHash string) (bool, error)
	Complete(ctx context.Context, companyID, key string, resp redis.StoredResponse) error
	Release(ctx context.Context, companyID, key string) error
}

// Idempotency reproduce la respuesta guardada cuando llega la misma clave con el mismo cuerpo.
// La clave se reserva antes de ejecutar el handler: una petición simultánea con la misma
// clave recibe 409 IDEMPOTENCY_IN_PROGRESS. Sin store o sin header es un pass-through.
// Solo se guardan respuestas 2xx; las demás liberan la reserva.
func Idempotency(store IdempotencyStore, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(IdempotencyHeader))
		if store == nil || key == "" {
			return c.Next()
		}
		companyID := GetCompanyID(c)
		if companyID == "" {
			return unauthorized(c)
		}
		scoped := c.Method() + "|" + c.Path() + "|" + key
		requestHash := hashBody(c.Body())

		stored, err := store.Get(c.UserContext(), companyID, scoped)
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("consulta de idempotência falhou")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "não foi possível verificar a chave de idempotência"})
		}
		if stored != nil {
			return replay(c, stored, requestHash)
		}

		reserved, err := store.Reserve(c.UserContext(), companyID, scoped, requestHash)
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("reserva de idempotência falhou")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "não foi possível verificar a chave de idempotência"})
		}
		if !reserved {
			return inProgress(c)
		}

		if err := c.Next(); err != nil {
			release(c, store, log, companyID, scoped)
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			release(c, store, log, companyID, scoped)
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		err = store.Complete(c.UserContext(), companyID, scoped, redis.StoredResponse{
			RequestHash: requestHash,
			StatusCode:  status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        body,
		})
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("gravar idempotência falhou")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, stored *redis.StoredResponse, requestHash string) error {
	if stored.RequestHash != requestHash {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_KEY_REUSED", Message: "chave de idempotência reutilizada com outro corpo"})
	}
	if stored.Pending {
		return inProgress(c)
	}
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	c.Set("Idempotent-Replayed", "true")
	return c.Status(stored.StatusCode).Send(stored.Body)
}

func inProgress(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "requisição com esta chave ainda em processamento"})
}

func release(c *fiber.Ctx, store IdempotencyStore, log zerolog.Logger, companyID, scoped string) {
	if err := store.Release(c.UserContext(), companyID, scoped); err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Msg("liberar chave de idempotência falhou")
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}
