// Package handler provides the HTTP handlers of the bambushain API.
//
// Every handler depends on a small service interface declared next to it,
// so tests can run the real handler against a mock service. Handlers decode
// and validate the request, call the service and write the result. Service
// errors go through MapServiceError and are returned as RFC 9457 problem
// details.
//
// RegisterRoutes wires all handlers onto an http.ServeMux. Guards such as
// login, mod rights and the admin key are passed in as middlewares:
//
//	mux := http.NewServeMux()
//	handler.RegisterRoutes(mux, handlers, handler.RouteGuards{
//	    Auth:       middleware.Auth(authService, cfg.Auth.CookieName),
//	    Admin:      middleware.AdminKey(cfg.Auth.AdminAPIKey),
//	    LoginLimit: middleware.RateLimit(limiter),
//	})
package handler
