package handler

import (
	"turf-hire/internal/delivery/http/dto"
	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/pkg/response"
	"turf-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	me := r.Group("/me")
	me.Get("/candidate-profile", middleware.RequireRole(user.RoleCandidate), h.GetMyCandidate)
	me.Put("/candidate-profile", middleware.RequireRole(user.RoleCandidate), h.SaveCandidate)
	me.Get("/facility-profile", middleware.RequireRole(user.RoleFacility), h.GetMyFacility)
	me.Put("/facility-profile", middleware.RequireRole(user.RoleFacility), h.SaveFacility)

	r.Get("/candidates/:userId", h.GetCandidate)
	r.Get("/candidates/:userId/skills", h.CandidateSkills)
	r.Get("/facilities/:userId", h.GetFacility)
}

func (h *ProfileHandler) GetMyCandidate(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	p, err := h.uc.GetCandidate(c.Context(), actor, actor.UserID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateProfileResponse(p))
}

func (h *ProfileHandler) SaveCandidate(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CandidateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	saved, err := h.uc.SaveCandidate(c.Context(), actor, req.ToDomain(actor.UserID))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile saved", dto.NewCandidateProfileResponse(saved))
}

func (h *ProfileHandler) GetCandidate(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	p, err := h.uc.GetCandidate(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateProfileResponse(p))
}

func (h *ProfileHandler) CandidateSkills(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	proj, err := h.uc.CandidateSkills(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := dto.NewProjectionResponse(proj)
	return response.List(c, res, len(res))
}

func (h *ProfileHandler) GetMyFacility(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	p, err := h.uc.GetFacility(c.Context(), actor, actor.UserID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewFacilityProfileResponse(p))
}

func (h *ProfileHandler) SaveFacility(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.FacilityProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	saved, err := h.uc.SaveFacility(c.Context(), actor, req.ToDomain(actor.UserID))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile saved", dto.NewFacilityProfileResponse(saved))
}

func (h *ProfileHandler) GetFacility(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	p, err := h.uc.GetFacility(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewFacilityProfileResponse(p))
}
