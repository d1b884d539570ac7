// Package api provides the HTTP REST API and WebSocket server for Signage
// Core.
//
// It exposes schedule, settings, display, media and slideshow operations to
// the admin UI, and pushes realtime updates to connected displays over the
// WebSocket hub. Every successful mutation broadcasts the same JSON the
// REST response returns, so a client that handles the broadcast needs no
// follow-up fetch.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
