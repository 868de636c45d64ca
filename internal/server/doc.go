// Package server runs the loopback HTTP endpoint used to authorize Spotify access.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] registers method patterns on an [http.ServeMux] and applies [Middleware]
// in reverse order (last added executes first). [Logging] records requests without their query strings.
//
// # OAuth Callback Handler
//
// [OAuthHandler] validates the state parameter, hands the authorization code to an [Exchanger]
// and publishes the result once on a channel. Later callbacks are rejected.
//
// # Lifecycle
//
// `ymx auth` derives the listen address from the user's redirect URI with [CallbackAddr],
// starts a [CallbackServer], opens the consent page and blocks in [WaitForToken].
package server
