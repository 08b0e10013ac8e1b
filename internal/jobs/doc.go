// Package jobs implements background work that runs next to the HTTP server.
//
// Jobs follow the same shape: a constructor taking the narrow interfaces they
// need, Start and Stop to control a ticker loop, and RunOnce for a single
// pass in tests or manual runs.
//
//	cleanup := jobs.NewTokenCleanup(tokenService, authService, time.Hour)
//	cleanup.Start()
//	defer cleanup.Stop()
package jobs
