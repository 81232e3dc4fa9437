package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/desertthunder/sp2yt/internal/models"
)

func TestConfidence(t *testing.T) {
	track := models.Track{Title: "Midnight City", Artist: "M83"}

	tests := []struct {
		name  string
		title string
		want  models.Confidence
	}{
		{"title and artist", "M83 - Midnight City (Official Video)", models.ConfidenceHigh},
		{"title only, different case", "MIDNIGHT CITY lyrics", models.ConfidenceHigh},
		{"artist only", "m83 live at coachella", models.ConfidenceHigh},
		{"neither", "Best driving songs compilation", models.ConfidenceLow},
		{"partial words do not count", "Midnight in the City", models.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Confidence(track, models.Video{Title: tt.title}))
		})
	}
}

func TestBestMatch(t *testing.T) {
	track := models.Track{Title: "Intro", Artist: "The xx"}

	_, ok := BestMatch(track, nil)
	assert.False(t, ok)

	match, ok := BestMatch(track, []models.Video{
		{ID: "first", Title: "random upload"},
		{ID: "second", Title: "The xx - Intro"},
	})
	assert.True(t, ok)
	assert.Equal(t, "first", match.Video.ID, "only the first result is considered")
	assert.Equal(t, models.ConfidenceLow, match.Confidence)
	assert.Equal(t, track, match.Track)
}
