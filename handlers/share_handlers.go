package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// AddSharedCommentRequest is the body for posting a comment through a share
// link. The commenter is unauthenticated, so they may volunteer an email.
type AddSharedCommentRequest struct {
	Content     string  `json:"content" validate:"required"`
	AuthorEmail *string `json:"author_email,omitempty" validate:"omitempty,email"`
}

// GetSharedJob godoc
// @Summary Read a job via its share token
// @Description Unauthenticated read access. Denied once the share window has
// @Description lapsed or if the job was never submitted.
// @Tags shared
// @Produce  json
// @Param   token path string true "Share token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Unknown or expired token"
// @Router /shared/{token} [get]
func (h *ApplicationHandler) GetSharedJob(c *fiber.Ctx) error {
	job, err := h.Store.GetJobByShareToken(c.Context(), c.Params("token"))
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, job)
}

// ListSharedComments godoc
// @Summary List comments via a share token
// @Tags shared
// @Produce  json
// @Param   token path string true "Share token"
// @Success 200 {object} map[string]interface{}
// @Router /shared/{token}/comments [get]
func (h *ApplicationHandler) ListSharedComments(c *fiber.Ctx) error {
	job, err := h.Store.GetJobByShareToken(c.Context(), c.Params("token"))
	if err != nil {
		return h.respondError(c, err)
	}

	comments, err := h.Store.ListComments(c.Context(), job.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, comments)
}

// AddSharedComment godoc
// @Summary Comment on a job via a share token
// @Description Lets an unauthenticated share-link holder leave feedback.
// @Tags shared
// @Accept  json
// @Produce  json
// @Param   token path string true "Share token"
// @Param   comment body AddSharedCommentRequest true "Comment to add"
// @Success 201 {object} map[string]interface{}
// @Router /shared/{token}/comments [post]
func (h *ApplicationHandler) AddSharedComment(c *fiber.Ctx) error {
	job, err := h.Store.GetJobByShareToken(c.Context(), c.Params("token"))
	if err != nil {
		return h.respondError(c, err)
	}

	req := new(AddSharedCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse comment JSON")
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), "; "))
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Comment content must not be empty")
	}

	comment, err := h.Store.AddComment(c.Context(), job.ID, content, req.AuthorEmail)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, comment)
}
