// Package server provides the local HTTP callback used by the OAuth authorization code flows.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first).
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] receives the redirect from Spotify or Google, validates the state parameter,
// exchanges the authorization code for a token and delivers exactly one [OAuthResult] on a channel.
// Later callbacks are rejected.
//
// The CLI starts a temporary [http.Server] on the configured host and port, opens the consent page
// and shuts the server down once a result arrives or two minutes pass.
package server
