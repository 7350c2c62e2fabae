package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/refiner"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/store"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/utils"
)

// CreateJobRequest defines the expected request body for creating a job.
// OriginalText is required; everything else is optional styling.
type CreateJobRequest struct {
	Title        *string `json:"title,omitempty"`
	OriginalText string  `json:"original_text" validate:"required"`
	Tone         *string `json:"tone,omitempty" validate:"omitempty,oneof=corporate startup academic"`
	Length       *string `json:"length,omitempty" validate:"omitempty,oneof=concise detailed"`
}

// RefineJobRequest selects the style options for a refinement run. Omitted
// fields fall back to the job's stored options, then to defaults.
type RefineJobRequest struct {
	Tone   *string `json:"tone,omitempty" validate:"omitempty,oneof=corporate startup academic"`
	Length *string `json:"length,omitempty" validate:"omitempty,oneof=concise detailed"`
}

// CreateJob godoc
// @Summary Create a new job draft
// @Description Creates a new job posting in draft status owned by the caller.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   job body CreateJobRequest true "Job draft to create"
// @Success 201 {object} map[string]interface{} "Job created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Router /jobs [post]
func (h *ApplicationHandler) CreateJob(c *fiber.Ctx) error {
	req := new(CreateJobRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse job JSON")
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	job, err := h.Store.CreateJob(c.Context(), currentUserID(c), store.CreateJobParams{
		Title:        req.Title,
		OriginalText: req.OriginalText,
		Tone:         req.Tone,
		Length:       req.Length,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, job)
}

// ListMyJobs godoc
// @Summary List the caller's jobs
// @Description Returns the caller's jobs ordered by most recent update.
// @Tags jobs
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /jobs [get]
func (h *ApplicationHandler) ListMyJobs(c *fiber.Ctx) error {
	jobs, err := h.Store.ListJobs(c.Context(), currentUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, jobs)
}

// GetJob godoc
// @Summary Get a job
// @Description Returns one job. Readable by its owner and by managers.
// @Tags jobs
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /jobs/{id} [get]
func (h *ApplicationHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.fetchJobForRead(c)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, job)
}

// UpdateJob godoc
// @Summary Update a job
// @Description Partially updates a job's content fields. Owner only; a
// @Description manager may transition status via the workflow endpoints but
// @Description never edits content.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /jobs/{id} [patch]
func (h *ApplicationHandler) UpdateJob(c *fiber.Ctx) error {
	job, err := h.fetchOwnedJob(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	patch, err := buildContentPatch(payload)
	if err != nil {
		return h.respondError(c, err)
	}
	patch["updated_at"] = time.Now().UTC()

	updated, err := h.Store.UpdateJob(c.Context(), job.ID, patch)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// DeleteJob godoc
// @Summary Delete a job
// @Description Deletes a job at any status. Owner only. Comments cascade.
// @Tags jobs
// @Param   id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /jobs/{id} [delete]
func (h *ApplicationHandler) DeleteJob(c *fiber.Ctx) error {
	job, err := h.fetchOwnedJob(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.Store.DeleteJob(c.Context(), job.ID); err != nil {
		return h.respondError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": job.ID})
}

// RefineJob godoc
// @Summary Refine a job's notes with AI
// @Description Runs the two-step refinement (polish text, extract skills) and
// @Description persists the result. Nothing is saved if the upstream fails.
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   id path string true "Job ID"
// @Param   options body RefineJobRequest false "Style options"
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{} "Refinement upstream failed"
// @Router /jobs/{id}/refine [post]
func (h *ApplicationHandler) RefineJob(c *fiber.Ctx) error {
	job, err := h.fetchOwnedJob(c)
	if err != nil {
		return h.respondError(c, err)
	}

	req := new(RefineJobRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse refine options JSON")
		}
		if err := h.Validate.Struct(req); err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(utils.FormatValidationErrors(err), "; "))
		}
	}

	opts := refineOptions(job, req)
	result, err := h.Refiner.Refine(c.Context(), job.OriginalText, opts)
	if err != nil {
		return h.respondError(c, err)
	}

	// Persist only after both upstream calls succeeded, so a failed run
	// leaves the previously saved refinement untouched.
	patch := lifecycle.Patch{
		"refined_text":        result.RefinedText,
		"skills_must_have":    models.DedupeSkills(result.Skills.MustHave),
		"skills_nice_to_have": models.DedupeSkills(result.Skills.NiceToHave),
		"tone":                opts.Tone,
		"length":              opts.Length,
		"updated_at":          time.Now().UTC(),
	}
	updated, err := h.Store.UpdateJob(c.Context(), job.ID, patch)
	if err != nil {
		return h.respondError(c, err)
	}

	h.Logger.Infof("Refined job %s (%d must-have, %d nice-to-have skills)",
		job.ID, len(result.Skills.MustHave), len(result.Skills.NiceToHave))
	return utils.RespondWithJSON(c, fiber.StatusOK, updated)
}

// fetchOwnedJob loads the job in the path and checks the caller owns it.
func (h *ApplicationHandler) fetchOwnedJob(c *fiber.Ctx) (*models.Job, error) {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, &lifecycle.ValidationError{Field: "id", Reason: "invalid job ID format"}
	}
	job, err := h.Store.GetJob(c.Context(), jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != currentUserID(c) {
		return nil, lifecycle.ErrForbidden
	}
	return job, nil
}

// fetchJobForRead loads the job in the path for the owner or a manager.
func (h *ApplicationHandler) fetchJobForRead(c *fiber.Ctx) (*models.Job, error) {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, &lifecycle.ValidationError{Field: "id", Reason: "invalid job ID format"}
	}
	job, err := h.Store.GetJob(c.Context(), jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID == currentUserID(c) {
		return job, nil
	}
	role, roleErr := h.Store.GetRole(c.Context(), currentUserID(c))
	if roleErr != nil || role != models.RoleManager {
		return nil, lifecycle.ErrForbidden
	}
	return job, nil
}

func refineOptions(job *models.Job, req *RefineJobRequest) refiner.Options {
	opts := refiner.Options{Tone: models.ToneCorporate, Length: models.LengthConcise}
	if job.Tone != nil {
		opts.Tone = *job.Tone
	}
	if job.Length != nil {
		opts.Length = *job.Length
	}
	if req.Tone != nil {
		opts.Tone = *req.Tone
	}
	if req.Length != nil {
		opts.Length = *req.Length
	}
	return opts
}

// buildContentPatch whitelists the owner-editable fields from a PATCH
// payload. Unknown keys are ignored; wrongly typed values are rejected.
func buildContentPatch(payload map[string]interface{}) (lifecycle.Patch, error) {
	patch := lifecycle.Patch{}

	for _, field := range []string{"title", "original_text", "refined_text", "tone", "length"} {
		val, exists := payload[field]
		if !exists {
			continue
		}
		if val == nil {
			if field == "original_text" {
				return nil, &lifecycle.ValidationError{Field: field, Reason: "must not be null"}
			}
			patch[field] = nil
			continue
		}
		str, ok := val.(string)
		if !ok {
			return nil, &lifecycle.ValidationError{Field: field, Reason: "must be a string"}
		}
		if field == "original_text" && strings.TrimSpace(str) == "" {
			return nil, &lifecycle.ValidationError{Field: field, Reason: "must not be empty"}
		}
		patch[field] = str
	}

	if patch["tone"] != nil {
		if tone, ok := patch["tone"].(string); ok && tone != models.ToneCorporate && tone != models.ToneStartup && tone != models.ToneAcademic {
			return nil, &lifecycle.ValidationError{Field: "tone", Reason: "must be corporate, startup, or academic"}
		}
	}
	if patch["length"] != nil {
		if length, ok := patch["length"].(string); ok && length != models.LengthConcise && length != models.LengthDetailed {
			return nil, &lifecycle.ValidationError{Field: "length", Reason: "must be concise or detailed"}
		}
	}

	for _, field := range []string{"skills_must_have", "skills_nice_to_have"} {
		val, exists := payload[field]
		if !exists {
			continue
		}
		skills, ok := toStringSlice(val)
		if !ok {
			return nil, &lifecycle.ValidationError{Field: field, Reason: "must be an array of strings"}
		}
		patch[field] = models.DedupeSkills(skills)
	}

	if len(patch) == 0 {
		return nil, &lifecycle.ValidationError{Field: "body", Reason: "no updatable fields provided"}
	}
	return patch, nil
}

func toStringSlice(val interface{}) ([]string, bool) {
	raw, ok := val.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		str, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, str)
	}
	return out, true
}
