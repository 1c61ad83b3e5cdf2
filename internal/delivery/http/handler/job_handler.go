package handler

import (
	"turf-hire/internal/delivery/http/dto"
	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/domain/job"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/pkg/response"
	"turf-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	jobs usecase.JobUsecase
	apps usecase.ApplicationUsecase
}

func NewJobHandler(jobs usecase.JobUsecase, apps usecase.ApplicationUsecase) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/jobs")
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Post("/", middleware.RequireRole(user.RoleFacility), h.Create)
	grp.Put("/:id", middleware.RequireRole(user.RoleFacility), h.Update)
	grp.Delete("/:id", middleware.RequireRole(user.RoleFacility), h.Delete)

	grp.Post("/:id/applications", middleware.RequireRole(user.RoleCandidate), h.Apply)
	grp.Get("/:id/applications", middleware.RequireRole(user.RoleFacility), h.Applicants)

	apps := r.Group("/applications")
	apps.Get("/", h.MyApplications)
	apps.Patch("/:id", middleware.RequireRole(user.RoleFacility), h.Review)
	apps.Delete("/:id", middleware.RequireRole(user.RoleCandidate), h.Withdraw)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	items, err := h.jobs.ListJobs(c.Context(), actor, c.Query("q"))
	if err != nil {
		return mapUsecaseError(err)
	}
	res := dto.NewJobResponses(items)
	return response.List(c, res, len(res))
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	l, err := h.jobs.GetJob(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(l))
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.JobRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := h.jobs.CreateJob(c.Context(), actor, jobInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "Job created", dto.NewJobResponse(created))
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.JobRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.jobs.UpdateJob(c.Context(), actor, id, jobInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job updated", dto.NewJobResponse(updated))
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.jobs.DeleteJob(c.Context(), actor, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job deleted", nil)
}

func (h *JobHandler) Apply(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ApplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	app, err := h.apps.Apply(c.Context(), actor, usecase.ApplyInput{
		JobID:       jobID,
		CoverLetter: req.CoverLetter,
		Attachments: req.Attachments,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "Application submitted", dto.NewApplicationResponse(app))
}

func (h *JobHandler) Applicants(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.apps.ListForJob(c.Context(), actor, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := make([]dto.ApplicationResponse, 0, len(items))
	for _, it := range items {
		r := dto.NewApplicationResponse(it.Application)
		r.ApplicantSkills = dto.NewProjectionResponse(it.Skills)
		r.SkillMatch = dto.NewSkillMatchResponse(it.Match)
		res = append(res, r)
	}
	return response.List(c, res, len(res))
}

func (h *JobHandler) MyApplications(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	items, err := h.apps.ListMine(c.Context(), actor)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := dto.NewApplicationResponses(items)
	return response.List(c, res, len(res))
}

func (h *JobHandler) Review(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewApplicationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	app, err := h.apps.Review(c.Context(), actor, usecase.ReviewApplicationInput{
		ApplicationID: id,
		Status:        job.ApplicationStatus(req.Status),
		Notes:         req.Notes,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Application updated", dto.NewApplicationResponse(app))
}

func (h *JobHandler) Withdraw(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.apps.Withdraw(c.Context(), actor, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Application withdrawn", nil)
}

func jobInput(req dto.JobRequest) usecase.JobInput {
	return usecase.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        job.Type(req.Type),
		Salary: job.Salary{
			Amount:   req.Salary.Amount,
			Type:     req.Salary.Type,
			Currency: req.Salary.Currency,
		},
		Requirements:   req.Requirements,
		RequiredSkills: req.RequiredSkills,
		Status:         job.Status(req.Status),
	}
}
