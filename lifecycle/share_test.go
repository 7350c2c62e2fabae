package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/models"
)

func TestShareAccessible(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"never submitted", nil, false},
		{"window open", &future, true},
		{"window lapsed", &past, false},
		{"expires exactly now", &now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &models.Job{ShareExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, ShareAccessible(job, now))
		})
	}
}
