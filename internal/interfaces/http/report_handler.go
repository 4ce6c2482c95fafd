package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Estoque-api/internal/application/analytics"
	"github.com/jhoicas/Estoque-api/internal/application/dto"
)

// ReportHandler maneja los relatórios de movimentações y stock por localidad.
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Movements godoc
// @Summary      Histórico de movimentações por período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Início (YYYY-MM-DD ou RFC3339). Vazio = sem limite."
// @Param        to      query  string  false  "Fim, inclusivo (YYYY-MM-DD ou RFC3339)."
// @Param        limit   query  int     false  "Limite"  default(15)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.MovementReportRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MovementsByPeriod(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MovementsByUser godoc
// @Summary      Histórico de movimentações de um usuário
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        userId  path   string  true   "ID do usuário"
// @Param        from    query  string  false  "Início"
// @Param        to      query  string  false  "Fim, inclusivo"
// @Param        limit   query  int     false  "Limite"  default(15)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements/by-user/{userId} [get]
func (h *ReportHandler) MovementsByUser(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.MovementReportRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MovementsByUser(c.UserContext(), companyID, c.Params("userId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockByLocation godoc
// @Summary      Estoque por localidade
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        locationId  path  string  true  "ID da localidade"
// @Success      200  {object}  dto.StockByLocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-by-location/{locationId} [get]
func (h *ReportHandler) StockByLocation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.StockByLocation(c.UserContext(), companyID, c.Params("locationId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockByLocationPDF godoc
// @Summary      Estoque por localidade em PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        locationId  path  string  true  "ID da localidade"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-by-location/{locationId}/pdf [get]
func (h *ReportHandler) StockByLocationPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	locationID := c.Params("locationId")
	pdf, err := h.uc.StockByLocationPDF(c.UserContext(), companyID, locationID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=estoque-%s.pdf", locationID))
	return c.Send(pdf)
}
