package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/gotrue"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/refiner"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/middleware"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/store"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// ApplicationHandler holds shared dependencies for handlers. The store,
// refiner, and auth collaborators sit behind interfaces so tests can swap in
// fakes.
type ApplicationHandler struct {
	Store    store.JobStore
	Refiner  refiner.Service
	Auth     gotrue.Service
	Logger   *logrus.Logger
	Validate *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(jobStore store.JobStore, refinerSvc refiner.Service, auth gotrue.Service, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Store:    jobStore,
		Refiner:  refinerSvc,
		Auth:     auth,
		Logger:   logger,
		Validate: validator.New(),
	}
}

// currentUserID returns the authenticated user id placed in locals by the
// auth middleware.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(middleware.LocalUserID).(uuid.UUID)
	return id
}

func currentUserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(middleware.LocalUserEmail).(string)
	return email
}

// requireManager resolves the caller's role and fails with 403 unless they
// are a manager. Role lookups degrade to member on store trouble, so a flaky
// directory can deny a real manager but can never promote a member.
func (h *ApplicationHandler) requireManager(c *fiber.Ctx) (uuid.UUID, error) {
	userID := currentUserID(c)
	role, err := h.Store.GetRole(c.Context(), userID)
	if err != nil || role != models.RoleManager {
		return uuid.Nil, lifecycle.ErrForbidden
	}
	return userID, nil
}

// respondError maps the error taxonomy onto HTTP statuses.
func (h *ApplicationHandler) respondError(c *fiber.Ctx, err error) error {
	var validationErr *lifecycle.ValidationError
	var transitionErr *lifecycle.TransitionError
	var upstreamErr *lifecycle.UpstreamError

	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return utils.RespondWithError(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, lifecycle.ErrForbidden):
		return utils.RespondWithError(c, fiber.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, lifecycle.ErrConflict):
		return utils.RespondWithError(c, fiber.StatusConflict, "The job was modified concurrently; re-fetch and try again")
	case errors.As(err, &validationErr):
		return utils.RespondWithError(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.As(err, &transitionErr):
		return utils.RespondWithError(c, fiber.StatusConflict, transitionErr.Error())
	case errors.As(err, &upstreamErr):
		return utils.RespondWithError(c, fiber.StatusBadGateway, upstreamErr.Error())
	default:
		h.Logger.WithField("request_id", c.Locals("requestid")).
			Errorf("Unhandled error: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
