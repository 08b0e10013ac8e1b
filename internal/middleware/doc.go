// Package middleware provides the HTTP middleware of the bambushain API.
//
// # Available Middleware
//
//   - RequestID: assigns or forwards X-Request-ID
//   - Logger: structured request logging with log/slog
//   - Recovery: turns panics into a problem details 500
//   - CORS: origin allow list with credentials
//   - Compress: gzip for everything except the event streams
//   - Tracing: OpenTelemetry server spans
//   - Auth: resolves the login token from the Authorization header
//     (Bearer or Panda scheme) or the auth cookie
//   - RequireMod: restricts a route to grove mods
//   - AdminKey: static key check for the grove administration
//   - RateLimit: token bucket per client host, used on the login routes
//
// # Context Values
//
// After Auth, handlers read the caller through GetUser, GetGrove and
// GetToken. GetRequestID returns the request identifier.
package middleware
