// Package input tracks the media source chosen for the next transcription.
//
// A Source is a tagged union: nothing, a local file (opened on demand and
// treated as read-only), or a recognised remote media URL. Selection holds
// the active Source and keeps the two concrete variants mutually exclusive:
// setting a file drops any URL and vice versa. Selection performs no network
// or storage access beyond stat'ing files handed to FileFromPath.
package input
