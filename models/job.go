package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the workflow state of a job posting.
type JobStatus string

const (
	StatusDraft           JobStatus = "draft"
	StatusPendingApproval JobStatus = "pending_approval"
	StatusApproved        JobStatus = "approved"
	StatusRejected        JobStatus = "rejected"
)

// Tone and length options accepted by the refinement upstream.
const (
	ToneCorporate = "corporate"
	ToneStartup   = "startup"
	ToneAcademic  = "academic"

	LengthConcise  = "concise"
	LengthDetailed = "detailed"
)

// Job represents the structure of a job posting in the database.
type Job struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Title            *string    `json:"title,omitempty"`          // Use a pointer for nullable TEXT fields
	OriginalText     string     `json:"original_text"`
	RefinedText      *string    `json:"refined_text,omitempty"`   // Set once refinement has run
	SkillsMustHave   []string   `json:"skills_must_have"`
	SkillsNiceToHave []string   `json:"skills_nice_to_have"`
	Tone             *string    `json:"tone,omitempty"`
	Length           *string    `json:"length,omitempty"`
	Status           JobStatus  `json:"status"`
	ManagerFeedback  *string    `json:"manager_feedback,omitempty"` // Meaningful only while rejected
	ReviewedBy       *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ShareToken       string     `json:"share_token"`                // Assigned by the database at insert
	ShareExpiresAt   *time.Time `json:"share_expires_at,omitempty"` // Nullable TIMESTAMPTZ
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ValidStatus reports whether s is one of the four workflow states.
func ValidStatus(s JobStatus) bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// DedupeSkills removes exact-string duplicates while preserving first-seen
// order. Skill sets are order-irrelevant but the stored arrays keep the order
// the model produced them in.
func DedupeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
