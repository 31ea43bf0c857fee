// Package artifacts downloads generated sheet (PDF) and MIDI files to disk.
//
// Artifact URLs returned by the service may be absolute or relative to the
// service root (for example /static/song.pdf). Files are written to a temp
// name and renamed into place so a partial download never looks complete.
package artifacts
