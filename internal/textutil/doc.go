// Package textutil provides small text helpers shared by the CLI, the library
// and artifact downloads: filesystem-safe names and human titles derived from
// media file names.
package textutil
