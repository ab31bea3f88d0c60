package providers

import (
	"context"
	"log/slog"
)

// LogTier emits a log entry if logger is non-nil and always includes the tier name.
func LogTier(ctx context.Context, logger *slog.Logger, level slog.Level, tier string, msg string, args ...any) {
	if logger == nil {
		return
	}
	args = append(args, slog.String("tier", tier))
	logger.Log(ctx, level, msg, args...)
}
