// Package preflight provides readiness checks for the transcription service,
// the auth session and the local paths AutoSheetify depends on.
//
// The CLI "autosheetify status" command runs RunAll and renders each Result.
// Individual checks (CheckService, CheckDirectoryAccess) are also used by the
// HTTP bridge health endpoint.
package preflight
