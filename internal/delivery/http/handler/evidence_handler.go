package handler

import (
	"fmt"

	"turf-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// EvidenceHandler streams evidence kept by a store that has no signed URLs.
type EvidenceHandler struct {
	evidence usecase.EvidenceUsecase
}

func NewEvidenceHandler(evidence usecase.EvidenceUsecase) *EvidenceHandler {
	return &EvidenceHandler{evidence: evidence}
}

func (h *EvidenceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/evidence/*", h.Download)
}

func (h *EvidenceHandler) Download(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	obj, err := h.evidence.Download(c.Context(), actor, c.Params("*"))
	if err != nil {
		return mapUsecaseError(err)
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", obj.FileName))
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	return c.Status(fiber.StatusOK).Send(obj.Data)
}
