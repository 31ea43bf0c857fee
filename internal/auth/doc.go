// Package auth exposes the read-only session view that gates transcription
// submissions, plus the on-disk session store maintained by the auth commands.
//
// The Gate never logs in or refreshes anything: it reads a Session (token and
// validity flag) from an injected SessionProvider and either produces the
// bearer header value or reports ErrNotAuthenticated. Token validity is
// derived locally; JWT tokens are inspected for an expired exp claim without
// verifying the signature, since the transcription service remains the only
// verifier.
package auth
