package tasks

import (
	"github.com/desertthunder/sp2yt/internal/models"
	"github.com/desertthunder/sp2yt/internal/shared"
)

// Confidence grades a candidate video against a track.
//
// A match is high confidence when the track name or the primary artist appears in the video
// title, ignoring case. Anything else is low.
func Confidence(track models.Track, video models.Video) models.Confidence {
	if shared.ContainsFold(video.Title, track.Title) || shared.ContainsFold(video.Title, track.Artist) {
		return models.ConfidenceHigh
	}
	return models.ConfidenceLow
}

// BestMatch picks the first search result and grades it. ok is false when there are no results.
func BestMatch(track models.Track, videos []models.Video) (models.Match, bool) {
	if len(videos) == 0 {
		return models.Match{}, false
	}

	video := videos[0]
	return models.Match{
		Track:      track,
		Video:      video,
		Confidence: Confidence(track, video),
	}, true
}
