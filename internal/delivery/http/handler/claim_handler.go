package handler

import (
	"io"
	"mime/multipart"
	"strings"

	"turf-hire/internal/delivery/http/dto"
	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/pkg/response"
	"turf-hire/internal/pkg/validator"
	"turf-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	formSkillID      = "skill_id"
	formFiles        = "files"
	formDescriptions = "descriptions"
)

type ClaimHandler struct {
	claims  usecase.ClaimUsecase
	metrics usecase.MetricsUsecase
}

func NewClaimHandler(claims usecase.ClaimUsecase, metrics usecase.MetricsUsecase) *ClaimHandler {
	return &ClaimHandler{claims: claims, metrics: metrics}
}

func (h *ClaimHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skill-claims")
	grp.Post("/", middleware.RequireRole(user.RoleCandidate), h.Create)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id/status", middleware.RequireRole(user.RoleAdmin), h.UpdateStatus)

	r.Get("/admin/verification-metrics", middleware.RequireRole(user.RoleAdmin), h.Metrics)
}

// Create accepts multipart/form-data with skill_id, zero or more files and
// descriptions matched to files by position.
func (h *ClaimHandler) Create(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Expected multipart form", nil, err)
	}

	skillID, err := uuid.Parse(strings.TrimSpace(firstValue(form.Value[formSkillID])))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed",
			validator.FieldErrors{{Field: formSkillID, Message: "must be a valid uuid"}}, err)
	}

	files, err := readEvidence(form.File[formFiles], form.Value[formDescriptions])
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Could not read uploaded file", nil, err)
	}

	created, err := h.claims.CreateClaim(c.Context(), actor, usecase.CreateClaimInput{SkillID: skillID, Files: files})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "Skill claim submitted", dto.NewClaimResponse(created))
}

func (h *ClaimHandler) List(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var status *skill.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := skill.Status(strings.ToLower(raw))
		if !st.Valid() {
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed",
				validator.FieldErrors{{Field: "status", Message: "must be one of: pending verified rejected"}}, nil)
		}
		status = &st
	}

	items, err := h.claims.ListClaims(c.Context(), actor, status)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := dto.NewClaimResponses(items)
	return response.List(c, res, len(res))
}

func (h *ClaimHandler) Get(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	cl, err := h.claims.GetClaim(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewClaimResponse(cl))
}

func (h *ClaimHandler) UpdateStatus(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClaimStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.claims.UpdateClaimStatus(c.Context(), actor, usecase.UpdateClaimStatusInput{
		ClaimID:         id,
		Status:          skill.Status(req.Status),
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Claim "+updated.Status.String(), dto.NewClaimResponse(updated))
}

func (h *ClaimHandler) Metrics(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	m, err := h.metrics.ComputeMetrics(c.Context(), actor)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMetricsResponse(m))
}

func readEvidence(headers []*multipart.FileHeader, descriptions []string) ([]usecase.EvidenceFile, error) {
	files := make([]usecase.EvidenceFile, 0, len(headers))
	for i, fh := range headers {
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		var desc string
		if i < len(descriptions) {
			desc = strings.TrimSpace(descriptions[i])
		}
		files = append(files, usecase.EvidenceFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
			Description: desc,
		})
	}
	return files, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func firstValue(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}
