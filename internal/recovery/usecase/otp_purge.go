package usecase

import (
	"context"
	"log/slog"
)

// PurgeExpiredOtps drops records that can no longer be consumed. Expired rows
// are already ignored by lookups, so this only keeps the table small.
func (s *Usecase) PurgeExpiredOtps(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "PurgeExpiredOtps")
	defer span.End()

	n, err := s.repoDB.DeleteExpiredOtps(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired otps", "error", err)
		return 0, err
	}

	if n > 0 {
		slog.InfoContext(ctx, "purged expired otps", "count", n)
	}

	return n, nil
}
