package handler

import (
	"turf-hire/internal/delivery/http/dto"
	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/domain/course"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/pkg/response"
	"turf-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CourseHandler struct {
	courses usecase.CourseUsecase
}

func NewCourseHandler(courses usecase.CourseUsecase) *CourseHandler {
	return &CourseHandler{courses: courses}
}

func (h *CourseHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/courses", middleware.RequireRole(user.RoleFacility))
	grp.Get("/", h.ListMine)
	grp.Post("/", h.Create)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)

	r.Get("/facilities/:userId/courses", h.ListForFacility)
}

func (h *CourseHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	items, err := h.courses.ListCourses(c.Context(), actor, actor.UserID)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := dto.NewCourseResponses(items)
	return response.List(c, res, len(res))
}

func (h *CourseHandler) ListForFacility(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	facilityID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	items, err := h.courses.ListCourses(c.Context(), actor, facilityID)
	if err != nil {
		return mapUsecaseError(err)
	}
	res := dto.NewCourseResponses(items)
	return response.List(c, res, len(res))
}

func (h *CourseHandler) Get(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.courses.GetCourse(c.Context(), actor, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCourseResponse(p))
}

func (h *CourseHandler) Create(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	created, err := h.courses.CreateCourse(c.Context(), actor, courseInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, "Course created", dto.NewCourseResponse(created))
}

func (h *CourseHandler) Update(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.courses.UpdateCourse(c.Context(), actor, id, courseInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Course updated", dto.NewCourseResponse(updated))
}

func (h *CourseHandler) Delete(c fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.courses.DeleteCourse(c.Context(), actor, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Course deleted", nil)
}

func courseInput(req dto.CourseRequest) usecase.CourseInput {
	return usecase.CourseInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Details: course.Details{
			Holes:        req.Details.Holes,
			TotalYardage: req.Details.TotalYardage,
			Par:          req.Details.Par,
			CourseRating: req.Details.CourseRating,
			SlopeRating:  req.Details.SlopeRating,
		},
		Photos: req.Photos,
		Status: req.Status,
	}
}
