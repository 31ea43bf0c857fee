// Package services defines shared utilities consumed by the transcription
// core, the CLI, and the HTTP bridge.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and submission
//     request ids for logging.
//   - The error taxonomy: sentinel markers (validation, auth, network, http,
//     server logic), the reason errors built on them, and the Wrap helper
//     that adds stage context while keeping the marker matchable.
//
// Use these helpers when wiring new components so failures classify the same
// way everywhere a Failed state is rendered.
package services
