package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/gsquery/internal/observability"
	"github.com/danmuck/gsquery/internal/protocol/gamespy"
	"github.com/rs/zerolog/log"
)

// queryMessage prints one line per configured key for message.
func queryMessage(w io.Writer, cfg queryConfig, message string) error {
	buf := make([]byte, cfg.Capacity)
	for _, name := range cfg.Keys {
		key := gamespy.Key(name)
		full, ok := gamespy.Value(message, key)
		if !ok {
			observability.RecordExtraction(key, observability.ResultNotFound, 0)
			log.Debug().Str("key", key).Msg("key missing")
			if _, err := fmt.Fprintf(w, "%s (missing)\n", name); err != nil {
				return err
			}
			continue
		}

		n := gamespy.CopyValue(buf, full, cfg.Capacity)
		value := string(buf[:n])
		result := observability.ResultFound
		if n < len(full) {
			result = observability.ResultTruncated
			log.Debug().Str("key", key).Int("len", len(full)).Int("capacity", cfg.Capacity).Msg("value truncated")
		}
		observability.RecordExtraction(key, result, len(full))
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, value); err != nil {
			return err
		}
	}
	return nil
}

// queryStream runs queryMessage over each non-blank line of r.
func queryStream(w io.Writer, cfg queryConfig, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := queryMessage(w, cfg, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read messages: %w", err)
	}
	return nil
}
