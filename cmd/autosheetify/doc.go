// Package main hosts the AutoSheetify CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the transcription orchestrator from a
// terminal: it fills the input selection from flags, submits, waits for the
// outcome and renders it. Auxiliary commands manage the session file, the
// local results library, artifact downloads, preflight status, configuration
// scaffolding, and the local HTTP bridge.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it through dedicated commands or flags here.
package main
