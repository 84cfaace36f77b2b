package util

import (
	"io"
	"log/slog"
)

// CloseQuietly closes c on an error path where the original error wins.
// A failing Close is logged, not returned.
func CloseQuietly(c io.Closer, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "what", what, "err", err)
	}
}
