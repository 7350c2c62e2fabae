// Package lifecycle encodes the job posting workflow: which status
// transitions are legal, what each one requires, and which derived fields it
// touches. Transitions are computed here as update patches and applied by the
// store as single conditional updates, so all "who can do what when" rules
// live in one place.
package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

// ShareWindow is how long a share link stays valid after each submission.
const ShareWindow = 7 * 24 * time.Hour

// Patch is a partial update applied to the jobs table. Keys are column names;
// a nil value clears the column.
type Patch map[string]interface{}

// Submit moves a draft or rejected job into pending_approval and re-arms the
// share-link expiry window. The share token itself is assigned at row
// creation and never changes. Reviewer stamps from an earlier rejection are
// cleared: a pending job carries no review verdict.
func Submit(job *models.Job, now time.Time) (Patch, error) {
	if job.Status != models.StatusDraft && job.Status != models.StatusRejected {
		return nil, &TransitionError{Op: "submit", From: job.Status}
	}
	if job.RefinedText == nil || strings.TrimSpace(*job.RefinedText) == "" {
		return nil, &ValidationError{Field: "refined_text", Reason: "job must be refined before submission"}
	}
	return Patch{
		"status":           models.StatusPendingApproval,
		"share_expires_at": now.Add(ShareWindow),
		"reviewed_by":      nil,
		"reviewed_at":      nil,
		"updated_at":       now,
	}, nil
}

// Approve moves a pending job to approved, stamps the reviewer, and wipes any
// stale rejection feedback.
func Approve(job *models.Job, reviewerID uuid.UUID, now time.Time) (Patch, error) {
	if job.Status != models.StatusPendingApproval {
		return nil, &TransitionError{Op: "approve", From: job.Status}
	}
	return Patch{
		"status":           models.StatusApproved,
		"reviewed_by":      reviewerID,
		"reviewed_at":      now,
		"manager_feedback": nil,
		"updated_at":       now,
	}, nil
}

// Reject moves a pending job to rejected with the manager's feedback.
// Feedback is required; a rejection the owner can't act on is useless.
func Reject(job *models.Job, reviewerID uuid.UUID, feedback string, now time.Time) (Patch, error) {
	if job.Status != models.StatusPendingApproval {
		return nil, &TransitionError{Op: "reject", From: job.Status}
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, &ValidationError{Field: "feedback", Reason: "rejection requires feedback"}
	}
	return Patch{
		"status":           models.StatusRejected,
		"manager_feedback": feedback,
		"reviewed_by":      reviewerID,
		"reviewed_at":      now,
		"updated_at":       now,
	}, nil
}
