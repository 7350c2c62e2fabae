package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

// TestApprovalWorkflow walks a job through the whole review loop: draft,
// failed submit, refine, submit, approve, then a reject attempt on the
// already-approved job.
func TestApprovalWorkflow(t *testing.T) {
	fs := newFakeStore()
	app := newTestApp(fs, &fakeRefiner{})

	var job models.Job
	decodeData(t, doRequest(t, app, http.MethodPost, "/api/v1/jobs", ownerToken, map[string]interface{}{
		"original_text": "Need a cook",
		"tone":          "corporate",
		"length":        "concise",
	}), &job)
	require.Equal(t, models.StatusDraft, job.Status)
	require.Empty(t, job.SkillsMustHave)

	jobPath := "/api/v1/jobs/" + job.ID.String()

	// Submission without a refined draft fails and changes nothing.
	resp := doRequest(t, app, http.MethodPost, jobPath+"/submit", ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var unchanged models.Job
	decodeData(t, doRequest(t, app, http.MethodGet, jobPath, ownerToken, nil), &unchanged)
	assert.Equal(t, models.StatusDraft, unchanged.Status)

	// Set the refined text and submit for real.
	resp = doRequest(t, app, http.MethodPatch, jobPath, ownerToken, map[string]interface{}{
		"refined_text": "Chef wanted.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	before := time.Now().UTC()
	resp = doRequest(t, app, http.MethodPost, jobPath+"/submit", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pending models.Job
	decodeData(t, resp, &pending)
	assert.Equal(t, models.StatusPendingApproval, pending.Status)
	require.NotNil(t, pending.ShareExpiresAt)
	expectedExpiry := before.AddDate(0, 0, 7)
	assert.WithinDuration(t, expectedExpiry, *pending.ShareExpiresAt, 5*time.Second)
	assert.Nil(t, pending.ReviewedBy)
	assert.Nil(t, pending.ReviewedAt)

	// Manager approves.
	resp = doRequest(t, app, http.MethodPost, jobPath+"/approve", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var approved models.Job
	decodeData(t, resp, &approved)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, managerID, *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)
	assert.Nil(t, approved.ManagerFeedback)

	// Rejecting the already-approved job is an invalid transition, not a
	// silent status flip.
	resp = doRequest(t, app, http.MethodPost, jobPath+"/reject", managerToken, map[string]interface{}{
		"feedback": "needs salary range",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var still models.Job
	decodeData(t, doRequest(t, app, http.MethodGet, jobPath, ownerToken, nil), &still)
	assert.Equal(t, models.StatusApproved, still.Status)
}

func TestRejectAndResubmit(t *testing.T) {
	fs := newFakeStore()
	app := newTestApp(fs, &fakeRefiner{})

	job := seedPendingJob(t, app)
	jobPath := "/api/v1/jobs/" + job.ID.String()

	// Rejection without feedback fails validation.
	resp := doRequest(t, app, http.MethodPost, jobPath+"/reject", managerToken, map[string]interface{}{
		"feedback": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, jobPath+"/reject", managerToken, map[string]interface{}{
		"feedback": "needs salary range",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rejected models.Job
	decodeData(t, resp, &rejected)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.ManagerFeedback)
	assert.Equal(t, "needs salary range", *rejected.ManagerFeedback)
	require.NotNil(t, rejected.ReviewedBy)
	require.NotNil(t, rejected.ReviewedAt)

	// Resubmission re-enters review and re-arms the share window.
	resp = doRequest(t, app, http.MethodPost, jobPath+"/submit", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var resubmitted models.Job
	decodeData(t, resp, &resubmitted)
	assert.Equal(t, models.StatusPendingApproval, resubmitted.Status)
	assert.Nil(t, resubmitted.ReviewedBy, "pending jobs carry no review verdict")
	assert.Nil(t, resubmitted.ReviewedAt)

	// Approval after a rejection wipes the stale feedback.
	resp = doRequest(t, app, http.MethodPost, jobPath+"/approve", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var approved models.Job
	decodeData(t, resp, &approved)
	assert.Nil(t, approved.ManagerFeedback)
}

func TestNonManagerCannotReview(t *testing.T) {
	fs := newFakeStore()
	app := newTestApp(fs, &fakeRefiner{})

	job := seedPendingJob(t, app)
	jobPath := "/api/v1/jobs/" + job.ID.String()

	resp := doRequest(t, app, http.MethodPost, jobPath+"/approve", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, jobPath+"/reject", otherToken, map[string]interface{}{
		"feedback": "nope",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/submissions", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoleOutageNeverMintsAManager(t *testing.T) {
	fs := newFakeStore()
	fs.rolesDown = true
	app := newTestApp(fs, &fakeRefiner{})

	job := seedPendingJob(t, app)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/jobs/"+job.ID.String()+"/approve", managerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListSubmissions(t *testing.T) {
	fs := newFakeStore()
	app := newTestApp(fs, &fakeRefiner{})

	seedPendingJob(t, app)
	seedPendingJob(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/submissions", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var jobs []models.Job
	decodeData(t, resp, &jobs)
	assert.Len(t, jobs, 2)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/submissions?status=approved", managerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	jobs = nil
	decodeData(t, resp, &jobs)
	assert.Empty(t, jobs)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/submissions?status=draft", managerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestConditionalTransitionRace exercises the compare-and-set contract two
// racing reviewers hit: the second patch finds no row in the expected status
// and must observe a conflict, not silently succeed.
func TestConditionalTransitionRace(t *testing.T) {
	fs := newFakeStore()
	app := newTestApp(fs, &fakeRefiner{})

	job := seedPendingJob(t, app)
	now := time.Now().UTC()

	current, err := fs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)

	firstPatch, err := lifecycle.Approve(current, managerID, now)
	require.NoError(t, err)
	secondPatch, err := lifecycle.Approve(current, otherID, now)
	require.NoError(t, err)

	_, err = fs.TransitionJob(context.Background(), job.ID, models.StatusPendingApproval, firstPatch)
	require.NoError(t, err)

	_, err = fs.TransitionJob(context.Background(), job.ID, models.StatusPendingApproval, secondPatch)
	require.ErrorIs(t, err, lifecycle.ErrConflict)

	final, err := fs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, final.ReviewedBy)
	assert.Equal(t, managerID, *final.ReviewedBy, "the first committed reviewer wins")
}

// seedPendingJob creates a refined, submitted job owned by the owner user.
func seedPendingJob(t *testing.T, app *fiber.App) models.Job {
	t.Helper()

	var job models.Job
	decodeData(t, doRequest(t, app, http.MethodPost, "/api/v1/jobs", ownerToken, map[string]interface{}{
		"original_text": "Need a cook",
	}), &job)

	jobPath := "/api/v1/jobs/" + job.ID.String()
	resp := doRequest(t, app, http.MethodPatch, jobPath, ownerToken, map[string]interface{}{
		"refined_text": "Chef wanted.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, jobPath+"/submit", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pending models.Job
	decodeData(t, resp, &pending)
	return pending
}
