package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/resetmail/internal/notification/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/goroutine"
)

// RegisterSpoolFlusher flushes the spool every interval until ctx is done.
// A non-positive interval disables it.
func RegisterSpoolFlusher(ctx context.Context, routine *goroutine.Manager, interval time.Duration, uc ucSpool) {
	if interval <= 0 {
		return
	}

	//nolint:errcheck // only fails when the manager is stopped
	_ = routine.Go(ctx, "notification_spool_flusher", func(pCtx context.Context) error {
		slog.InfoContext(ctx, "Running job for flushing mail spool", "interval", interval.String())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-pCtx.Done():
				return nil
			case <-ticker.C:
				//nolint:errcheck // logged by the usecase
				_, _ = uc.FlushSpool(pCtx, usecase.FlushSpoolInput{})
			}
		}
	})
}
