// Package store is the persistence boundary for jobs, comments, and roles.
// The JobStore interface is the logical contract; the Supabase implementation
// backs it in production and tests substitute an in-memory fake.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

// CreateJobParams is the caller-supplied content of a new draft. Everything
// else (id, status, share token, timestamps) is assigned at creation.
type CreateJobParams struct {
	Title        *string
	OriginalText string
	Tone         *string
	Length       *string
}

// JobStore is the durable record store for job postings, their comments, and
// user roles.
type JobStore interface {
	// CreateJob inserts a new draft owned by ownerID.
	CreateJob(ctx context.Context, ownerID uuid.UUID, params CreateJobParams) (*models.Job, error)

	// GetJob returns the job or lifecycle.ErrNotFound.
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)

	// GetJobByShareToken returns the job for a live share token.
	// lifecycle.ErrNotFound covers both unknown tokens and tokens whose
	// share window has lapsed.
	GetJobByShareToken(ctx context.Context, token string) (*models.Job, error)

	// ListJobs returns the owner's jobs, most recently updated first.
	ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error)

	// ListJobsByStatus returns jobs in any of the given statuses, most
	// recently updated first. Used by manager views.
	ListJobsByStatus(ctx context.Context, statuses []models.JobStatus) ([]models.Job, error)

	// UpdateJob applies a patch unconditionally (matched on id only) and
	// returns the updated row, or lifecycle.ErrNotFound.
	UpdateJob(ctx context.Context, id uuid.UUID, patch lifecycle.Patch) (*models.Job, error)

	// TransitionJob applies a patch conditioned on the job still being in
	// the from status. A zero-row match is lifecycle.ErrConflict: either a
	// concurrent writer moved the job first or it was deleted. Exactly one
	// of two racing transitions can succeed.
	TransitionJob(ctx context.Context, id uuid.UUID, from models.JobStatus, patch lifecycle.Patch) (*models.Job, error)

	// DeleteJob removes the job; the database cascades its comments.
	DeleteJob(ctx context.Context, id uuid.UUID) error

	// AddComment appends a comment. authorEmail is nil for anonymous
	// share-link commenters.
	AddComment(ctx context.Context, jobID uuid.UUID, content string, authorEmail *string) (*models.Comment, error)

	// ListComments returns a job's comments, oldest first.
	ListComments(ctx context.Context, jobID uuid.UUID) ([]models.Comment, error)

	// GetRole resolves a user's role. A missing row and a failed lookup
	// both resolve to member; elevated privilege is never the failure mode.
	GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error)
}
