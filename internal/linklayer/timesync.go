package linklayer

import (
	"context"
	"time"

	"github.com/meterbox/beacon/internal/logger"
	"go.uber.org/zap"
)

// RunTimeSync re-probes the link once an hour (spec §5's Time Sync task:
// "1-hour sleep"). It doesn't adjust a clock — the host already runs NTP —
// it exists to periodically confirm association independent of the
// transport path, so a long-idle device notices a dropped network even
// between transmissions.
func (l *Link) RunTimeSync(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := l.Probe(ctx)
			logger.DebugWithFields("time sync probe", zap.Bool("associated", ok))
		}
	}
}
