package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/application/live"
)

const streamHeartbeat = 20 * time.Second

// StockFeed es la parte del feed en vivo que usa el handler SSE.
type StockFeed interface {
	Subscribe(ctx context.Context, companyID string) (*live.Subscription, error)
}

// InventoryHandler maneja movimentações, consultas de saldo y el stream en vivo.
type InventoryHandler struct {
	movements *inventory.RegisterMovementUseCase
	query     *inventory.StockQueryUseCase
	feed      StockFeed
	log       zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.RegisterMovementUseCase, query *inventory.StockQueryUseCase, feed StockFeed, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{movements: movements, query: query, feed: feed, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimentação de estoque
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body             body    dto.RegisterMovementRequest  true   "product_id, type (ENTRADA|SAIDA|TRANSFERENCIA), quantity, origem/destino"
// @Param        Idempotency-Key  header  string                       false  "Chave de idempotência"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" || GetUserID(c) == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.RegisterMovementFromRequest(c.UserContext(), companyID, actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ProductStock godoc
// @Summary      Saldo de um produto por localidade
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do produto"
// @Success      200  {object}  dto.ProductStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [get]
func (h *InventoryHandler) ProductStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.query.ProductStock(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Overview godoc
// @Summary      Totais e saúde de todos os produtos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockSummaryResponse
// @Router       /api/stock/overview [get]
func (h *InventoryHandler) Overview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.query.Overview(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Produtos em nível crítico ou próximos do mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockSummaryResponse
// @Router       /api/stock/low [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.query.LowStock(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stream godoc
// @Summary      Saldos em tempo real (Server-Sent Events)
// @Description  Envia um evento "snapshot" com todos os saldos da empresa e depois eventos "change".
// @Tags         stock
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/stream [get]
func (h *InventoryHandler) Stream(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	// El contexto de fasthttp no se cancela al desconectar el cliente; se cancela
	// cuando falla una escritura.
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := h.feed.Subscribe(ctx, companyID)
	if err != nil {
		cancel()
		return writeError(c, err)
	}

	snapshot := make([]dto.StockLevelResponse, 0, len(sub.Snapshot))
	for _, l := range sub.Snapshot {
		snapshot = append(snapshot, inventory.ToStockLevelResponse(l))
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With().Str("company_id", companyID).Logger()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		if err := writeEvent(w, "snapshot", snapshot); err != nil {
			return
		}
		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case change, ok := <-sub.Changes:
				if !ok {
					// Feed reiniciado o suscriptor lento: el cliente debe reconectar.
					_ = writeEvent(w, "reset", fiber.Map{"reason": "reconectar"})
					return
				}
				if err := writeEvent(w, "change", change); err != nil {
					log.Debug().Err(err).Msg("cliente sse desconectado")
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
