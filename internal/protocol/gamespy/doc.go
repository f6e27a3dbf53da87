// Package gamespy reads values out of GameSpy query strings.
//
// A query string alternates backslash-bounded keys and values:
//
//	\lc\1\challenge\DFDMXJLXJL\id\1\final\
//
// Ownership boundary:
// - single key lookups into fixed-size destinations
// - no full map decoding, no transport
package gamespy
