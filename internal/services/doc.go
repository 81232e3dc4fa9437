// Package services wraps the provider SDKs behind the [Source] and [Destination] interfaces.
//
// # Spotify
//
// [SpotifyService] reads playlists through github.com/zmb3/spotify/v2. The HTTP client it is given
// carries credentials from either the authorization code flow (private and collaborative playlists)
// or the client credentials flow (public playlists only).
//
// # YouTube
//
// [YouTubeService] searches and writes playlists through the YouTube Data API v3
// (google.golang.org/api/youtube/v3) using the youtube.force-ssl scope.
//
// # Credentials
//
// [TokenClient] loads a cached token, refreshes it when possible and falls back to an [Authorizer]
// (the local callback flow in cmd) when it cannot. Refreshed tokens are written back through
// [shared.SavingTokenSource].
//
// # Error Handling
//
// Provider errors are mapped to sentinel errors from the shared package:
//   - [shared.ErrPlaylistNotFound] : the playlist does not exist or is not visible
//   - [shared.ErrAuthFailed] : credentials were rejected
//   - [shared.ErrQuotaExceeded] : YouTube quota or rate limit exhausted
//   - [shared.ErrAPIRequest] : any other failed request
package services
