package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/config"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/gotrue"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/refiner"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/middleware"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/store"
)

func init() {
	// The auth middleware logs through the package-global logger.
	config.InitLogger()
}

// Fixed identities for the test app.
var (
	ownerID   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	managerID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	otherID   = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

const (
	ownerToken   = "owner-token"
	managerToken = "manager-token"
	otherToken   = "other-token"
)

// fakeStore is an in-memory JobStore with the same conditional-update
// semantics as the Supabase implementation.
type fakeStore struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*models.Job
	comments  map[uuid.UUID][]models.Comment
	roles     map[uuid.UUID]models.Role
	rolesDown bool // simulates a transient role-directory outage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:     make(map[uuid.UUID]*models.Job),
		comments: make(map[uuid.UUID][]models.Comment),
		roles:    map[uuid.UUID]models.Role{managerID: models.RoleManager},
	}
}

func (f *fakeStore) CreateJob(ctx context.Context, ownerID uuid.UUID, params store.CreateJobParams) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	job := &models.Job{
		ID:               uuid.New(),
		UserID:           ownerID,
		Title:            params.Title,
		OriginalText:     params.OriginalText,
		SkillsMustHave:   []string{},
		SkillsNiceToHave: []string{},
		Tone:             params.Tone,
		Length:           params.Length,
		Status:           models.StatusDraft,
		ShareToken:       uuid.NewString(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.jobs[job.ID] = job
	cp := *job
	return &cp, nil
}

func (f *fakeStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (f *fakeStore) GetJobByShareToken(ctx context.Context, token string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, job := range f.jobs {
		if job.ShareToken == token {
			if !lifecycle.ShareAccessible(job, time.Now().UTC()) {
				return nil, lifecycle.ErrNotFound
			}
			cp := *job
			return &cp, nil
		}
	}
	return nil, lifecycle.ErrNotFound
}

func (f *fakeStore) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Job
	for _, job := range f.jobs {
		if job.UserID == ownerID {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) ListJobsByStatus(ctx context.Context, statuses []models.JobStatus) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[models.JobStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var out []models.Job
	for _, job := range f.jobs {
		if wanted[job.Status] {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateJob(ctx context.Context, id uuid.UUID, patch lifecycle.Patch) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	applyPatch(job, patch)
	cp := *job
	return &cp, nil
}

func (f *fakeStore) TransitionJob(ctx context.Context, id uuid.UUID, from models.JobStatus, patch lifecycle.Patch) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok || job.Status != from {
		return nil, lifecycle.ErrConflict
	}
	applyPatch(job, patch)
	cp := *job
	return &cp, nil
}

func (f *fakeStore) DeleteJob(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.jobs[id]; !ok {
		return lifecycle.ErrNotFound
	}
	delete(f.jobs, id)
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) AddComment(ctx context.Context, jobID uuid.UUID, content string, authorEmail *string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	comment := models.Comment{
		ID:        uuid.New(),
		JobID:     jobID,
		Content:   content,
		UserEmail: authorEmail,
		CreatedAt: time.Now().UTC(),
	}
	f.comments[jobID] = append(f.comments[jobID], comment)
	return &comment, nil
}

func (f *fakeStore) ListComments(ctx context.Context, jobID uuid.UUID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment(nil), f.comments[jobID]...), nil
}

func (f *fakeStore) GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rolesDown {
		// Same degradation as the real store: outages never mint a manager.
		return models.RoleMember, nil
	}
	role, ok := f.roles[userID]
	if !ok {
		return models.RoleMember, nil
	}
	return role, nil
}

func applyPatch(job *models.Job, patch lifecycle.Patch) {
	setStr := func(dst **string, v interface{}) {
		if v == nil {
			*dst = nil
			return
		}
		s := v.(string)
		*dst = &s
	}
	for key, val := range patch {
		switch key {
		case "status":
			job.Status = val.(models.JobStatus)
		case "title":
			setStr(&job.Title, val)
		case "original_text":
			job.OriginalText = val.(string)
		case "refined_text":
			setStr(&job.RefinedText, val)
		case "tone":
			setStr(&job.Tone, val)
		case "length":
			setStr(&job.Length, val)
		case "manager_feedback":
			setStr(&job.ManagerFeedback, val)
		case "reviewed_by":
			if val == nil {
				job.ReviewedBy = nil
			} else {
				id := val.(uuid.UUID)
				job.ReviewedBy = &id
			}
		case "reviewed_at":
			if val == nil {
				job.ReviewedAt = nil
			} else {
				at := val.(time.Time)
				job.ReviewedAt = &at
			}
		case "share_expires_at":
			at := val.(time.Time)
			job.ShareExpiresAt = &at
		case "skills_must_have":
			job.SkillsMustHave = val.([]string)
		case "skills_nice_to_have":
			job.SkillsNiceToHave = val.([]string)
		case "updated_at":
			job.UpdatedAt = val.(time.Time)
		}
	}
}

// fakeAuth resolves the fixed test tokens.
type fakeAuth struct{}

func (fakeAuth) SignIn(ctx context.Context, email, password string) (*gotrue.Session, error) {
	if password != "correct-horse" {
		return nil, fmt.Errorf("invalid login credentials")
	}
	return &gotrue.Session{
		AccessToken:  ownerToken,
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		User:         gotrue.User{ID: ownerID, Email: email},
	}, nil
}

func (fakeAuth) GetUser(ctx context.Context, accessToken string) (*gotrue.User, error) {
	switch accessToken {
	case ownerToken:
		return &gotrue.User{ID: ownerID, Email: "owner@example.com"}, nil
	case managerToken:
		return &gotrue.User{ID: managerID, Email: "manager@example.com"}, nil
	case otherToken:
		return &gotrue.User{ID: otherID, Email: "other@example.com"}, nil
	}
	return nil, fmt.Errorf("unknown token")
}

// fakeRefiner returns a canned result or error.
type fakeRefiner struct {
	result *refiner.Result
	err    error
}

func (f *fakeRefiner) Refine(ctx context.Context, originalText string, opts refiner.Options) (*refiner.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// newTestApp wires the same route table as main over the fakes.
func newTestApp(jobStore store.JobStore, refinerSvc refiner.Service) *fiber.App {
	h := NewApplicationHandler(jobStore, refinerSvc, fakeAuth{}, testLogger())

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	apiV1.Post("/auth/login", h.Login)
	apiV1.Get("/shared/:token", h.GetSharedJob)
	apiV1.Get("/shared/:token/comments", h.ListSharedComments)
	apiV1.Post("/shared/:token/comments", h.AddSharedComment)

	authed := apiV1.Group("", middleware.RequireUser(fakeAuth{}))
	authed.Get("/auth/me", h.Me)
	authed.Post("/jobs", h.CreateJob)
	authed.Get("/jobs", h.ListMyJobs)
	authed.Get("/jobs/:id", h.GetJob)
	authed.Patch("/jobs/:id", h.UpdateJob)
	authed.Delete("/jobs/:id", h.DeleteJob)
	authed.Post("/jobs/:id/refine", h.RefineJob)
	authed.Post("/jobs/:id/submit", h.SubmitJob)
	authed.Post("/jobs/:id/approve", h.ApproveJob)
	authed.Post("/jobs/:id/reject", h.RejectJob)
	authed.Get("/submissions", h.ListSubmissions)
	authed.Get("/jobs/:id/comments", h.ListJobComments)
	authed.Post("/jobs/:id/comments", h.AddJobComment)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "success", envelope.Status)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
