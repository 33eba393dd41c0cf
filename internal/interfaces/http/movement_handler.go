package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stocktrack-api/internal/application/dto"
	"github.com/tu-usuario/stocktrack-api/internal/application/ledger"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
)

// MovementHandler maneja las peticiones HTTP del ledger de stock (protegido).
type MovementHandler struct {
	engine *ledger.Engine
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *ledger.Engine) *MovementHandler {
	return &MovementHandler{engine: engine}
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica una entrada o salida al producto y anexa el movimiento
//               al ledger como unidad atómica.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, type (in|out), quantity > 0, notes opcional"
// @Success      201   {object}  dto.MovementAppliedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	res, err := h.engine.ApplyMovement(c.Context(), ledger.ApplyInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	})
	if err != nil {
		return h.mapApplyError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MovementAppliedResponse{
		Movement: dto.NewMovementDTO(res.Movement),
		Product:  dto.NewProductDTO(res.Product),
	})
}

// mapApplyError mapeo de la taxonomía del motor a HTTP. Ningún error se
// traga: cada clase tiene un resultado visible distinto para el caller.
func (h *MovementHandler) mapApplyError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Reason, Field: verr.Field,
		})
	}
	var ierr *domain.InsufficientStockError
	if errors.As(err, &ierr) {
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			Code:              "INSUFFICIENT_STOCK",
			Message:           "stock insuficiente",
			CurrentQuantity:   ierr.Current,
			RequestedQuantity: ierr.Requested,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		// Transitorio: el cliente puede reenviar, pero un reenvío crea un
		// movimiento nuevo; la deduplicación es responsabilidad del caller.
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CONFLICT", Message: "conflicto de escritura concurrente, reintente", Retryable: true,
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "STORE_UNAVAILABLE", Message: "almacén de datos no disponible", Retryable: true,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Movimientos más recientes primero, filtrables por producto y
//               rango de fechas. Sin límite por defecto.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        start_date  query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (RFC 3339 o YYYY-MM-DD, inclusivo)"
// @Param        limit       query  int     false  "0 = sin límite"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}

	filter := ledger.ListFilter{ProductID: in.ProductID, Limit: in.Limit, Offset: in.Offset}
	if in.StartDate != "" {
		t, _, err := parseDate(in.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida", Field: "start_date"})
		}
		filter.StartDate = &t
	}
	if in.EndDate != "" {
		t, dateOnly, err := parseDate(in.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida", Field: "end_date"})
		}
		if dateOnly {
			// Fecha sin hora: el filtro incluye el día completo.
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &t
	}

	movements, err := h.engine.ListMovements(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewMovementDTO(m))
	}
	return c.JSON(out)
}

// parseDate acepta RFC 3339 o fecha simple YYYY-MM-DD (UTC).
func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = time.ParseInLocation("2006-01-02", s, time.UTC)
	return t, true, err
}
