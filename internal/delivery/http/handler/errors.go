package handler

import (
	"errors"

	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/pkg/response"
	"turf-hire/internal/pkg/validator"
	"turf-hire/internal/usecase"
	ucauth "turf-hire/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// actorFromCtx reads the identity AuthMiddleware stored in locals.
func actorFromCtx(c fiber.Ctx) (usecase.Actor, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return usecase.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	email, _ := c.Locals(middleware.CtxEmailKey).(string)
	role, _ := c.Locals(middleware.CtxRoleKey).(user.Role)
	return usecase.Actor{UserID: userID, Email: email, Role: role}, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request",
			validator.FieldErrors{{Field: name, Message: "must be a valid uuid"}}, err)
	}
	return id, nil
}

// bind decodes the body into dst and runs its validate tags.
func bind(c fiber.Ctx, dst any) error {
	if err := c.Bind().Body(dst); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validator.Struct(dst); err != nil {
		var fe validator.FieldErrors
		if errors.As(err, &fe) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fe, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return nil
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var ve *usecase.ValidationError
	var nf *usecase.NotFoundError
	switch {
	case errors.As(err, &ve):
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed",
			validator.FieldErrors{{Field: ve.Field, Message: ve.Message}}, err)
	case errors.Is(err, usecase.ErrValidation):
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.As(err, &nf):
		return middleware.NewAppError(fiber.StatusNotFound, nf.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrDuplicateClaim):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already claimed", nil, err)
	case errors.Is(err, usecase.ErrDuplicateApplication):
		return middleware.NewAppError(fiber.StatusConflict, "Already applied to this job", nil, err)
	case errors.Is(err, usecase.ErrDuplicateSkill):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Claim has already been reviewed", nil, err)
	case errors.Is(err, usecase.ErrEvidenceUpload):
		return middleware.NewAppError(fiber.StatusBadGateway, "Evidence upload failed", nil, err)
	case errors.Is(err, usecase.ErrTransaction):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput), errors.Is(err, ucauth.ErrInvalidRole):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
