// Package library persists successful transcriptions in a local SQLite
// database so sheets and MIDI files can be listed, re-downloaded and removed
// later.
//
// Entries are keyed by UUID; lookups accept any unambiguous id prefix so CLI
// users can type the first few characters shown by `library list`. The schema
// is embedded and versioned; a version mismatch is reported rather than
// migrated.
package library
