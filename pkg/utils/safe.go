package utils

import (
	"context"
	"strings"
	"unicode/utf8"

	"stock-research-api/pkg/logger"
)

// GoSafe runs fn in a goroutine and swallows panics so a single bad worker
// cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			_ = recover()
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive, logging once when
// it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}

// SafeText strips invalid UTF-8 sequences and NUL bytes from scraped text.
func SafeText(s string) string {
	if utf8.ValidString(s) {
		return strings.ReplaceAll(s, "\x00", "")
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}
