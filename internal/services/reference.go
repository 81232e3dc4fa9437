package services

import "strings"

const spotifyURIPrefix = "spotify:playlist:"

// ExtractPlaylistID returns the playlist ID from a Spotify playlist URL, a spotify:playlist: URI or a bare ID.
//
//	https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc -> 37i9dQZF1DXcBWIGoYBM5M
//	spotify:playlist:37i9dQZF1DXcBWIGoYBM5M                        -> 37i9dQZF1DXcBWIGoYBM5M
//	37i9dQZF1DXcBWIGoYBM5M                                         -> 37i9dQZF1DXcBWIGoYBM5M
func ExtractPlaylistID(ref string) string {
	ref = strings.TrimSpace(ref)

	if _, after, ok := strings.Cut(ref, "/playlist/"); ok {
		id, _, _ := strings.Cut(after, "?")
		id, _, _ = strings.Cut(id, "#")
		return strings.TrimSuffix(id, "/")
	}

	if id, ok := strings.CutPrefix(ref, spotifyURIPrefix); ok {
		return id
	}
	return ref
}
