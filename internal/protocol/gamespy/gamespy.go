package gamespy

import (
	"bytes"
	"fmt"
	"strings"
)

// Delimiter separates keys and values on the wire.
const Delimiter = '\\'

// Key wraps a bare key name in delimiters, e.g. "challenge" -> `\challenge\`.
func Key(name string) string {
	return string(Delimiter) + name + string(Delimiter)
}

// ExtractValue copies the value that follows key in message into dest.
//
// key is matched as a plain substring; the first occurrence wins. The value
// runs up to the next backslash or the end of message. At most capacity-1
// bytes are copied and a zero byte terminates the result, so a long value is
// truncated. capacity is clamped to len(dest); when it is <= 0 nothing is
// written. On a miss dest is left untouched and false is returned.
func ExtractValue(message, key string, dest []byte, capacity int) bool {
	value, ok := Value(message, key)
	if !ok {
		return false
	}
	CopyValue(dest, value, capacity)
	return true
}

// CopyValue writes value into dest under the same bounds as ExtractValue and
// returns the number of value bytes written, not counting the terminator.
func CopyValue(dest []byte, value string, capacity int) int {
	capacity = min(capacity, len(dest))
	if capacity <= 0 {
		return 0
	}
	n := copy(dest[:capacity-1], value)
	dest[n] = 0
	return n
}

// Value returns the full value slot that follows key in message.
func Value(message, key string) (string, bool) {
	pos := strings.Index(message, key)
	if pos < 0 {
		return "", false
	}
	start := pos + len(key)
	rest := message[start:]
	if end := strings.IndexByte(rest, Delimiter); end >= 0 {
		return rest[:end], true
	}
	return rest, true
}

// Lookup is Value with absence reported as ErrKeyNotFound.
func Lookup(message, key string) (string, error) {
	value, ok := Value(message, key)
	if !ok {
		return "", fmt.Errorf("lookup %q: %w", key, ErrKeyNotFound)
	}
	return value, nil
}

// CString returns dest up to its first zero byte.
func CString(dest []byte) string {
	if i := bytes.IndexByte(dest, 0); i >= 0 {
		return string(dest[:i])
	}
	return string(dest)
}
