package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a comment on a job posting. Comments are append-only;
// share-link holders may post them without authenticating, so the author
// email is optional.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	Content   string    `json:"content"`
	UserEmail *string   `json:"user_email,omitempty"` // Nullable TEXT
	CreatedAt time.Time `json:"created_at"`
}
