// Package orchestrator drives one transcription at a time through
// Idle → Submitting → Success | Failed and back to Idle on Reset.
//
// Machine composes the input selection, the auth gate, the payload builder,
// the executor and the binder. Submit validates synchronously, then runs the
// network call on its own goroutine; only the outcome tagged with the live
// request id may change state, so a Reset during flight orphans the pending
// request instead of letting it overwrite newer state.
package orchestrator
