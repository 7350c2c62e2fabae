package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// AddCommentRequest is the body for posting a comment on a job.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ListJobComments godoc
// @Summary List a job's comments
// @Description Returns comments oldest first. Owner or manager.
// @Tags comments
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /jobs/{id}/comments [get]
func (h *ApplicationHandler) ListJobComments(c *fiber.Ctx) error {
	job, err := h.fetchJobForRead(c)
	if err != nil {
		return h.respondError(c, err)
	}

	comments, err := h.Store.ListComments(c.Context(), job.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, comments)
}

// AddJobComment godoc
// @Summary Comment on a job
// @Description Appends a comment attributed to the caller's email. Owner or
// @Description manager; comments are append-only.
// @Tags comments
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   comment body AddCommentRequest true "Comment to add"
// @Success 201 {object} map[string]interface{}
// @Router /jobs/{id}/comments [post]
func (h *ApplicationHandler) AddJobComment(c *fiber.Ctx) error {
	job, err := h.fetchJobForRead(c)
	if err != nil {
		return h.respondError(c, err)
	}

	req := new(AddCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse comment JSON")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Comment content must not be empty")
	}

	var email *string
	if e := currentUserEmail(c); e != "" {
		email = &e
	}

	comment, err := h.Store.AddComment(c.Context(), job.ID, content, email)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, comment)
}
