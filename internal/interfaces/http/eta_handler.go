package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/eta-einvoice/internal/application/dto"
	"github.com/jhoicas/eta-einvoice/internal/application/einvoice"
	"github.com/jhoicas/eta-einvoice/internal/domain"
	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

// ETAService operaciones ETA sobre una factura; la implementa *einvoice.Orchestrator.
type ETAService interface {
	Submit(ctx context.Context, companyID, invoiceID string) (*einvoice.Result, error)
	Status(ctx context.Context, companyID, invoiceID string) (*einvoice.Result, error)
	Reconcile(ctx context.Context, companyID, invoiceID string) (*einvoice.Result, error)
	Cancel(ctx context.Context, companyID, invoiceID, reason string) (*einvoice.Result, error)
}

// ETAHandler maneja el envío de facturas a la ETA y la consulta de su estado (protegido).
type ETAHandler struct {
	svc ETAService
}

// NewETAHandler construye el handler.
func NewETAHandler(svc ETAService) *ETAHandler {
	return &ETAHandler{svc: svc}
}

// Submit godoc
// @Summary      Enviar factura a la ETA
// @Tags         eta
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.ETAStatusResponse
// @Failure      409  {object}  dto.ETAErrorResponse
// @Failure      422  {object}  dto.ETAErrorResponse
// @Failure      502  {object}  dto.ETAErrorResponse
// @Failure      503  {object}  dto.ETAErrorResponse
// @Router       /api/invoices/{id}/eta/submit [post]
func (h *ETAHandler) Submit(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c)
	if !ok {
		return nil
	}
	res, err := h.svc.Submit(c.Context(), companyID, id)
	if err != nil {
		return writeETAError(c, err)
	}
	return c.JSON(toETAStatusResponse(res))
}

// Status devuelve los campos ETA persistidos de la factura.
// GET /api/invoices/:id/eta
func (h *ETAHandler) Status(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c)
	if !ok {
		return nil
	}
	res, err := h.svc.Status(c.Context(), companyID, id)
	if err != nil {
		return writeETAError(c, err)
	}
	return c.JSON(toETAStatusResponse(res))
}

// Sync consulta a la ETA el estado del documento y lo concilia.
// POST /api/invoices/:id/eta/sync
func (h *ETAHandler) Sync(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c)
	if !ok {
		return nil
	}
	res, err := h.svc.Reconcile(c.Context(), companyID, id)
	if err != nil {
		return writeETAError(c, err)
	}
	return c.JSON(toETAStatusResponse(res))
}

// Cancel godoc
// @Summary      Cancelar documento válido ante la ETA
// @Tags         eta
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la factura"
// @Param        body  body  dto.CancelETARequest   true  "motivo"
// @Success      200   {object}  dto.ETAStatusResponse
// @Failure      409   {object}  dto.ETAErrorResponse
// @Router       /api/invoices/{id}/eta/cancel [post]
func (h *ETAHandler) Cancel(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c)
	if !ok {
		return nil
	}
	var in dto.CancelETARequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Reason) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	res, err := h.svc.Cancel(c.Context(), companyID, id, in.Reason)
	if err != nil {
		return writeETAError(c, err)
	}
	return c.JSON(toETAStatusResponse(res))
}

// scope extrae empresa (del token) e id de factura; si falta alguno ya escribió la respuesta.
func (h *ETAHandler) scope(c *fiber.Ctx) (companyID, id string, ok bool) {
	companyID = GetCompanyID(c)
	if companyID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", "", false
	}
	id = c.Params("id")
	if id == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
		return "", "", false
	}
	return companyID, id, true
}

// writeETAError traduce la taxonomía de errores ETA a respuestas HTTP.
func writeETAError(c *fiber.Ctx, err error) error {
	kind := domaineta.KindOf(err)
	body := dto.ETAErrorResponse{Code: kind.String(), Message: err.Error()}
	switch kind {
	case domaineta.KindValidation:
		var ve *domaineta.ValidationError
		if errors.As(err, &ve) {
			body.Defects = ve.Defects
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case domaineta.KindRejected:
		var re *domaineta.RejectedError
		if errors.As(err, &re) {
			body.Messages = re.Messages
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case domaineta.KindAlreadySubmitted, domaineta.KindNotSubmittable:
		return c.Status(fiber.StatusConflict).JSON(body)
	case domaineta.KindAuth:
		return c.Status(fiber.StatusBadGateway).JSON(body)
	case domaineta.KindTransient:
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toETAStatusResponse(r *einvoice.Result) dto.ETAStatusResponse {
	return dto.ETAStatusResponse{
		InvoiceID:    r.InvoiceID,
		Status:       r.Status,
		UUID:         r.UUID,
		LongID:       r.LongID,
		HashKey:      r.HashKey,
		SubmissionID: r.SubmissionID,
		Fingerprint:  r.Fingerprint,
		ErrorMessage: r.ErrorMessage,
		Errors:       r.Errors,
		SubmittedAt:  r.SubmittedAt,
	}
}
