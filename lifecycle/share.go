package lifecycle

import (
	"time"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

// ShareAccessible reports whether a bearer of the job's share token may read
// it at the given instant. A job that has never been submitted has no expiry
// set and is not shareable; an expired window makes the token inert without
// deleting the row. This check is independent of owner/manager authorization.
func ShareAccessible(job *models.Job, now time.Time) bool {
	if job.ShareExpiresAt == nil {
		return false
	}
	return now.Before(*job.ShareExpiresAt)
}
