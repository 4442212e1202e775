// Package gateway connects the pipeline to Slack: it consumes file-share
// events over socket mode and relays results back through the Web API.
package gateway

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/transpal/transpal-bot/core/pipeline"
	"github.com/transpal/transpal-bot/core/schema"
)

// Runner is the pipeline entry point the listener dispatches into.
type Runner interface {
	Process(ctx context.Context, media schema.MediaReference, ref pipeline.ChannelRef) (pipeline.State, error)
}

// Listener subscribes to message events on one configured channel and
// spawns one independent pipeline run per shared file. Events on other
// channels, or without files, are ignored without a response.
type Listener struct {
	client   *socketmode.Client
	runner   Runner
	channel  string
	botToken string
}

// NewListener wires a socket-mode listener. botToken doubles as the bearer
// credential for downloading the shared file.
func NewListener(client *socketmode.Client, runner Runner, channel, botToken string) *Listener {
	return &Listener{
		client:   client,
		runner:   runner,
		channel:  channel,
		botToken: botToken,
	}
}

// Run pumps socket-mode events until ctx is cancelled or the connection
// permanently fails.
func (l *Listener) Run(ctx context.Context) error {
	go l.consumeEvents(ctx)
	return l.client.RunContext(ctx)
}

func (l *Listener) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-l.client.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				log.Debug().Msg("connecting to slack")
			case socketmode.EventTypeConnectionError:
				log.Error().Msg("slack connection error, retrying")
			case socketmode.EventTypeConnected:
				log.Info().Msg("connected to slack")
			case socketmode.EventTypeEventsAPI:
				apiEvent, valid := evt.Data.(slackevents.EventsAPIEvent)
				if !valid {
					continue
				}
				l.client.Ack(*evt.Request)
				l.handleEventsAPI(ctx, apiEvent)
			}
		}
	}
}

func (l *Listener) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}
	ev, isMessage := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent)
	if !isMessage {
		return
	}

	media, ref, err := ParseFileShare(ev, l.channel, l.botToken)
	if err != nil {
		// Off-channel and fileless messages land here; only genuinely
		// malformed file shares are worth a log line.
		if pipeline.IsValidation(err) && len(ev.Files) > 0 {
			log.Warn().Err(err).Str("channel", ev.Channel).Msg("ignoring malformed file-share event")
		}
		return
	}

	log.Info().Str("file", media.Filename).Str("channel", ref.Channel).Msg("file share received")

	// One independent run per event; runs share no mutable state.
	go func() {
		if _, err := l.runner.Process(ctx, media, ref); err != nil {
			log.Error().Err(err).Str("file", media.Filename).Msg("pipeline run failed")
		}
	}()
}

// ParseFileShare validates the inbound event at the boundary and parses it
// into the media reference plus channel routing. Anything missing a
// filename, an extension, or a download URL is rejected here instead of
// failing on absent fields mid-pipeline.
func ParseFileShare(ev *slackevents.MessageEvent, channel, credential string) (schema.MediaReference, pipeline.ChannelRef, error) {
	ref := pipeline.ChannelRef{Channel: ev.Channel, ThreadTS: ev.TimeStamp}

	if ev.Channel != channel {
		return schema.MediaReference{}, ref, &pipeline.ValidationError{Reason: "event outside target channel"}
	}
	if len(ev.Files) == 0 {
		return schema.MediaReference{}, ref, &pipeline.ValidationError{Reason: "event carries no files"}
	}

	file := ev.Files[0]
	if file.Name == "" {
		return schema.MediaReference{}, ref, &pipeline.ValidationError{Reason: "shared file has no name"}
	}
	if pipeline.SourceExtension(file.Name) == "" {
		return schema.MediaReference{}, ref, &pipeline.ValidationError{Reason: "shared file has no extension"}
	}
	if file.URLPrivateDownload == "" {
		return schema.MediaReference{}, ref, &pipeline.ValidationError{Reason: "shared file has no download url"}
	}

	media := schema.MediaReference{
		Filename:   file.Name,
		MimeType:   file.Mimetype,
		SourceURL:  file.URLPrivateDownload,
		Credential: credential,
	}
	return media, ref, nil
}
