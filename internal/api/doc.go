// Package api implements the local HTTP bridge a browser front end drives.
//
// The bridge is a thin presentation layer over orchestrator.Machine: it
// writes the input selection and instrument, calls Submit and Reset, and
// renders the machine state. It never talks to the transcription service
// itself.
//
// # Routes
//
//	GET    /health
//	GET    /api/state           ?wait=1[&since=<version>] long-polls
//	PUT    /api/input/file      multipart field "file"
//	PUT    /api/input/url       {"url": "..."}
//	DELETE /api/input
//	PUT    /api/instrument      {"instrument": "piano"|"guitar"}
//	POST   /api/submit          202, 400 validation, 401 auth
//	POST   /api/reset
//	GET    /api/library
//	POST   /api/library         saves the current successful result
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript consumers. Timestamps use
// RFC3339 with milliseconds. When a server token is configured every /api
// route requires "Authorization: Bearer <token>"; /health stays open.
//
// Uploaded files are spooled to disk because multipart temp files are
// removed when the request ends, while the submission reads the file later.
package api
