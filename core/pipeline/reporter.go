package pipeline

import (
	"context"

	"github.com/transpal/transpal-bot/core/schema"
)

// ChannelRef routes all notifications for one run: the originating channel
// and the thread the results are replied into. Each run's ref is run-local,
// so no locking is needed across concurrent runs.
type ChannelRef struct {
	Channel  string
	ThreadTS string
}

// Reporter relays progress, telemetry, errors, and the result artifact to
// the invoking channel. Implementations returning an error push the run
// onto the failed path.
type Reporter interface {
	NotifyProgress(ctx context.Context, ref ChannelRef, text string) error
	NotifyCompletion(ctx context.Context, ref ChannelRef, filename string, timings schema.StageTimings) error
	NotifyFailure(ctx context.Context, ref ChannelRef, errMsg string) error
	UploadArtifact(ctx context.Context, ref ChannelRef, filename string, data []byte) error
}
