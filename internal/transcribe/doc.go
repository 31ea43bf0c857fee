// Package transcribe talks to the remote transcription service.
//
// Build turns an input source and instrument into a multipart payload, the
// Client executes exactly one POST to {base}/transcribe with a bearer header
// and reports a classified Outcome, and Bind maps that Outcome into the
// display-ready Result. Every Outcome carries the request id it was issued
// under so callers can drop responses that arrive after they stopped caring.
//
// Nothing here retries. Re-uploading large media is always the caller's
// explicit decision.
package transcribe
