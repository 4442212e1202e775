package gateway

import (
	"bytes"
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/transpal/transpal-bot/core/pipeline"
	"github.com/transpal/transpal-bot/core/schema"
)

// SlackReporter implements pipeline.Reporter over the Slack Web API. Every
// message and upload is threaded on the originating file-share message.
type SlackReporter struct {
	client *slack.Client
}

func NewSlackReporter(client *slack.Client) *SlackReporter {
	return &SlackReporter{client: client}
}

func (r *SlackReporter) NotifyProgress(ctx context.Context, ref pipeline.ChannelRef, text string) error {
	_, _, err := r.client.PostMessageContext(ctx, ref.Channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(ref.ThreadTS),
	)
	return err
}

func (r *SlackReporter) NotifyFailure(ctx context.Context, ref pipeline.ChannelRef, errMsg string) error {
	_, _, err := r.client.PostMessageContext(ctx, ref.Channel,
		slack.MsgOptionText(fmt.Sprintf("Processing failed: %s", errMsg), false),
		slack.MsgOptionTS(ref.ThreadTS),
	)
	return err
}

// NotifyCompletion posts the structured completion message: a header, the
// filename, and a field table of per-stage durations in two-decimal seconds.
func (r *SlackReporter) NotifyCompletion(ctx context.Context, ref pipeline.ChannelRef, filename string, timings schema.StageTimings) error {
	fields := []*slack.TextBlockObject{
		durationField("Download", timings.Download),
		durationField("Transcode", timings.Transcode),
		durationField("Diarize", timings.Diarize),
		durationField("Transcribe", timings.Transcribe),
		durationField("Total", timings.Total),
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Transcription complete", true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, filename, false, false), nil, nil),
		slack.NewSectionBlock(nil, fields, nil),
	}

	_, _, err := r.client.PostMessageContext(ctx, ref.Channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionTS(ref.ThreadTS),
	)
	return err
}

func (r *SlackReporter) UploadArtifact(ctx context.Context, ref pipeline.ChannelRef, filename string, data []byte) error {
	_, err := r.client.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Channel:         ref.Channel,
		ThreadTimestamp: ref.ThreadTS,
		Filename:        filename,
		FileSize:        len(data),
		Reader:          bytes.NewReader(data),
	})
	return err
}

func durationField(name string, seconds float64) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%.2f s", name, seconds), false, false)
}
