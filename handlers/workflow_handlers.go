package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// RejectJobRequest carries the manager's feedback for a rejection.
type RejectJobRequest struct {
	Feedback string `json:"feedback"`
}

// SubmitJob godoc
// @Summary Submit a job for manager approval
// @Description Moves a draft or rejected job into pending_approval and arms
// @Description the 7-day share-link window. Requires a refined draft.
// @Tags workflow
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "No refined text yet"
// @Failure 409 {object} map[string]interface{} "Wrong status or concurrent change"
// @Router /jobs/{id}/submit [post]
func (h *ApplicationHandler) SubmitJob(c *fiber.Ctx) error {
	job, err := h.fetchOwnedJob(c)
	if err != nil {
		return h.respondError(c, err)
	}

	patch, err := lifecycle.Submit(job, time.Now().UTC())
	if err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.Store.TransitionJob(c.Context(), job.ID, job.Status, patch)
	if err != nil {
		return h.respondError(c, err)
	}

	h.Logger.Infof("Job %s submitted for approval by %s", job.ID, currentUserID(c))
	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// ApproveJob godoc
// @Summary Approve a pending job
// @Description Manager only. Stamps the reviewer and clears any stale
// @Description rejection feedback.
// @Tags workflow
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /jobs/{id}/approve [post]
func (h *ApplicationHandler) ApproveJob(c *fiber.Ctx) error {
	reviewerID, err := h.requireManager(c)
	if err != nil {
		return h.respondError(c, err)
	}

	job, err := h.fetchJobForRead(c)
	if err != nil {
		return h.respondError(c, err)
	}

	patch, err := lifecycle.Approve(job, reviewerID, time.Now().UTC())
	if err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.Store.TransitionJob(c.Context(), job.ID, models.StatusPendingApproval, patch)
	if err != nil {
		return h.respondError(c, err)
	}

	h.Logger.Infof("Job %s approved by %s", job.ID, reviewerID)
	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// RejectJob godoc
// @Summary Reject a pending job with feedback
// @Description Manager only. Feedback is required so the owner can revise
// @Description and resubmit.
// @Tags workflow
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   rejection body RejectJobRequest true "Rejection feedback"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Empty feedback"
// @Failure 409 {object} map[string]interface{}
// @Router /jobs/{id}/reject [post]
func (h *ApplicationHandler) RejectJob(c *fiber.Ctx) error {
	reviewerID, err := h.requireManager(c)
	if err != nil {
		return h.respondError(c, err)
	}

	req := new(RejectJobRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse rejection JSON")
	}

	job, err := h.fetchJobForRead(c)
	if err != nil {
		return h.respondError(c, err)
	}

	patch, err := lifecycle.Reject(job, reviewerID, req.Feedback, time.Now().UTC())
	if err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.Store.TransitionJob(c.Context(), job.ID, models.StatusPendingApproval, patch)
	if err != nil {
		return h.respondError(c, err)
	}

	h.Logger.Infof("Job %s rejected by %s", job.ID, reviewerID)
	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// ListSubmissions godoc
// @Summary List submissions for review
// @Description Manager only. Returns jobs that have entered the review
// @Description workflow, optionally filtered to one status.
// @Tags workflow
// @Produce  json
// @Param   status query string false "pending_approval, approved, or rejected"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /submissions [get]
func (h *ApplicationHandler) ListSubmissions(c *fiber.Ctx) error {
	if _, err := h.requireManager(c); err != nil {
		return h.respondError(c, err)
	}

	statuses := []models.JobStatus{models.StatusPendingApproval, models.StatusApproved, models.StatusRejected}
	if filter := strings.TrimSpace(c.Query("status")); filter != "" {
		status := models.JobStatus(filter)
		if !models.ValidStatus(status) || status == models.StatusDraft {
			return utils.RespondWithError(c, fiber.StatusBadRequest,
				"status must be pending_approval, approved, or rejected")
		}
		statuses = []models.JobStatus{status}
	}

	jobs, err := h.Store.ListJobsByStatus(c.Context(), statuses)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, jobs)
}
