package models

import (
	"sort"
	"time"
)

// Report summarizes one conversion for display, export and history.
type Report struct {
	Source      Playlist  `json:"source"`
	Destination *Playlist `json:"destination,omitempty"`
	Privacy     string    `json:"privacy"`
	Status      RunStatus `json:"status"`
	Matches     []Match   `json:"matches"`
	Skipped     []Match   `json:"skipped,omitempty"`
	NotFound    []Track   `json:"not_found"`
	Added       int       `json:"added"`
	Failed      int       `json:"failed"`
	CreatedAt   time.Time `json:"created_at"`
}

// Converted is the number of tracks that ended up in the destination playlist.
func (r *Report) Converted() int {
	if r.Destination == nil {
		return len(r.Matches)
	}
	return r.Added
}

// Missing returns every track left out of the playlist, in source order.
func (r *Report) Missing() []Track {
	missing := make([]Track, 0, len(r.NotFound)+len(r.Skipped))
	missing = append(missing, r.NotFound...)
	for _, m := range r.Skipped {
		missing = append(missing, m.Track)
	}

	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Number < missing[j].Number
	})
	return missing
}

// ToRun converts the report into a history record with one [RunMatch] per source track.
func (r *Report) ToRun(id string) *Run {
	run := &Run{
		RunID:       id,
		SourceID:    r.Source.ID,
		SourceName:  r.Source.Name,
		SourceOwner: r.Source.Owner,
		SourceTotal: r.Source.TrackCount,
		Privacy:     r.Privacy,
		Status:      r.Status,
		Matched:     len(r.Matches),
		NotFound:    len(r.NotFound) + len(r.Skipped),
		Added:       r.Added,
		Failed:      r.Failed,
		Created:     r.CreatedAt,
	}
	if r.Destination != nil {
		run.PlaylistID = r.Destination.ID
		run.PlaylistURL = r.Destination.URL
	}

	rows := make([]RunMatch, 0, len(r.Matches)+len(r.Skipped)+len(r.NotFound))
	for _, m := range r.Matches {
		rows = append(rows, matchRow(m.Track, &m))
	}
	for _, m := range r.Skipped {
		row := matchRow(m.Track, &m)
		row.VideoID = ""
		rows = append(rows, row)
	}
	for _, t := range r.NotFound {
		rows = append(rows, matchRow(t, nil))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TrackNumber < rows[j].TrackNumber
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	run.Matches = rows
	return run
}

func matchRow(t Track, m *Match) RunMatch {
	row := RunMatch{
		TrackNumber: t.Number,
		TrackTitle:  t.Title,
		TrackArtist: t.Artist,
	}
	if m != nil {
		row.VideoID = m.Video.ID
		row.VideoTitle = m.Video.Title
		row.Confidence = m.Confidence
	}
	return row
}
