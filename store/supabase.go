package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

const (
	jobsTable     = "jobs"
	commentsTable = "comments"
	rolesTable    = "user_roles"
)

// SupabaseStore implements JobStore against the hosted Supabase database.
type SupabaseStore struct {
	client *supa.Client
	log    *logrus.Logger
}

// NewSupabaseStore creates a store on top of an initialized Supabase client.
func NewSupabaseStore(client *supa.Client, log *logrus.Logger) *SupabaseStore {
	return &SupabaseStore{client: client, log: log}
}

func (s *SupabaseStore) CreateJob(ctx context.Context, ownerID uuid.UUID, params CreateJobParams) (*models.Job, error) {
	now := time.Now().UTC()

	// Build the insert map by hand so the database assigns id and
	// share_token via its column defaults.
	jobData := map[string]interface{}{
		"user_id":             ownerID,
		"original_text":       params.OriginalText,
		"skills_must_have":    []string{},
		"skills_nice_to_have": []string{},
		"status":              models.StatusDraft,
		"created_at":          now,
		"updated_at":          now,
	}
	if params.Title != nil {
		jobData["title"] = *params.Title
	}
	if params.Tone != nil {
		jobData["tone"] = *params.Tone
	}
	if params.Length != nil {
		jobData["length"] = *params.Length
	}

	var results []models.Job
	body, _, err := s.client.From(jobsTable).
		Insert(jobData, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created job: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no row returned after job insert")
	}

	s.log.Infof("Created job %s for user %s", results[0].ID, ownerID)
	return &results[0], nil
}

func (s *SupabaseStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var jobs []models.Job
	body, _, err := s.client.From(jobsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job %s: %w", id, err)
	}
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	if len(jobs) == 0 {
		return nil, lifecycle.ErrNotFound
	}
	return &jobs[0], nil
}

func (s *SupabaseStore) GetJobByShareToken(ctx context.Context, token string) (*models.Job, error) {
	var jobs []models.Job
	body, _, err := s.client.From(jobsTable).
		Select("*", "", false).
		Eq("share_token", token).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job by share token: %w", err)
	}
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared job: %w", err)
	}
	if len(jobs) == 0 {
		return nil, lifecycle.ErrNotFound
	}

	// An expired window makes the token inert; the row stays put.
	if !lifecycle.ShareAccessible(&jobs[0], time.Now().UTC()) {
		return nil, lifecycle.ErrNotFound
	}
	return &jobs[0], nil
}

func (s *SupabaseStore) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	body, _, err := s.client.From(jobsTable).
		Select("*", "", false).
		Eq("user_id", ownerID.String()).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for user %s: %w", ownerID, err)
	}
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job list: %w", err)
	}
	return jobs, nil
}

func (s *SupabaseStore) ListJobsByStatus(ctx context.Context, statuses []models.JobStatus) ([]models.Job, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}

	var jobs []models.Job
	body, _, err := s.client.From(jobsTable).
		Select("*", "", false).
		In("status", values).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job list: %w", err)
	}
	return jobs, nil
}

func (s *SupabaseStore) UpdateJob(ctx context.Context, id uuid.UUID, patch lifecycle.Patch) (*models.Job, error) {
	var results []models.Job
	body, _, err := s.client.From(jobsTable).
		Update(map[string]interface{}(patch), "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update job %s: %w", id, err)
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated job %s: %w", id, err)
	}
	if len(results) == 0 {
		return nil, lifecycle.ErrNotFound
	}
	return &results[0], nil
}

func (s *SupabaseStore) TransitionJob(ctx context.Context, id uuid.UUID, from models.JobStatus, patch lifecycle.Patch) (*models.Job, error) {
	var results []models.Job
	// Matching on the current status alongside the id makes the transition a
	// single compare-and-set: of two racing reviewers, only the first update
	// finds a row to touch.
	body, _, err := s.client.From(jobsTable).
		Update(map[string]interface{}(patch), "representation", "").
		Eq("id", id.String()).
		Eq("status", string(from)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to transition job %s: %w", id, err)
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transitioned job %s: %w", id, err)
	}
	if len(results) == 0 {
		return nil, lifecycle.ErrConflict
	}

	s.log.Infof("Job %s transitioned from %s to %s", id, from, results[0].Status)
	return &results[0], nil
}

func (s *SupabaseStore) DeleteJob(ctx context.Context, id uuid.UUID) error {
	body, _, err := s.client.From(jobsTable).
		Delete("representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}

	var deleted []models.Job
	if err := json.Unmarshal(body, &deleted); err != nil {
		return fmt.Errorf("failed to unmarshal delete response for job %s: %w", id, err)
	}
	if len(deleted) == 0 {
		return lifecycle.ErrNotFound
	}

	s.log.Infof("Deleted job %s", id)
	return nil
}

func (s *SupabaseStore) AddComment(ctx context.Context, jobID uuid.UUID, content string, authorEmail *string) (*models.Comment, error) {
	commentData := map[string]interface{}{
		"job_id":  jobID,
		"content": content,
	}
	if authorEmail != nil {
		commentData["user_email"] = *authorEmail
	}

	var results []models.Comment
	body, _, err := s.client.From(commentsTable).
		Insert(commentData, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment on job %s: %w", jobID, err)
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created comment: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no row returned after comment insert")
	}
	return &results[0], nil
}

func (s *SupabaseStore) ListComments(ctx context.Context, jobID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	body, _, err := s.client.From(commentsTable).
		Select("*", "", false).
		Eq("job_id", jobID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for job %s: %w", jobID, err)
	}
	if err := json.Unmarshal(body, &comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments for job %s: %w", jobID, err)
	}
	return comments, nil
}

func (s *SupabaseStore) GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var rows []models.UserRole
	body, _, err := s.client.From(rolesTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		// Degrade to the lowest privilege on lookup failure. A transient
		// store error must never mint a manager.
		s.log.Warnf("Role lookup failed for user %s, defaulting to member: %v", userID, err)
		return models.RoleMember, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		s.log.Warnf("Role row unreadable for user %s, defaulting to member: %v", userID, err)
		return models.RoleMember, nil
	}
	if len(rows) == 0 {
		return models.RoleMember, nil
	}
	return models.ResolveRole(&rows[0]), nil
}
