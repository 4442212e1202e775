package cli

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	cliContext "github.com/transpal/transpal-bot/core/cli/context"
	"github.com/transpal/transpal-bot/core/config"
	"github.com/transpal/transpal-bot/core/gateway"
	"github.com/transpal/transpal-bot/pkg/signals"
)

type RunCMD struct {
	BotToken string `env:"SLACK_BOT_TOKEN" required:"" help:"Bot token used for the outbound channel API and for fetching shared files" group:"slack"`
	AppToken string `env:"SLACK_APP_TOKEN" required:"" help:"App-level token for the socket-mode event subscription" group:"slack"`
	Channel  string `env:"SLACK_BOT_CHANNEL" required:"" help:"Only file shares on this channel are processed" group:"slack"`

	OpenAIKey     string `env:"OPENAI_API_KEY" required:"" help:"Credential for the transcription backend" group:"backends"`
	DiarizerURL   string `env:"DIARIZER_URL" required:"" help:"Endpoint of the remote diarization service" group:"backends"`
	DiarizerToken string `env:"DIARIZER_API_TOKEN" help:"Credential for the diarization service" group:"backends"`

	PipelineFlags `embed:""`
}

// Run connects to the chat platform and serves pipeline runs until the
// process is told to stop.
func (r *RunCMD) Run(ctx *cliContext.Context) error {
	cfg := config.NewApplicationConfig(
		config.WithBotToken(r.BotToken),
		config.WithAppToken(r.AppToken),
		config.WithChannel(r.Channel),
		config.WithOpenAIKey(r.OpenAIKey),
		config.WithDiarizer(r.DiarizerURL, r.DiarizerToken),
	)
	if err := r.PipelineFlags.apply(cfg); err != nil {
		return err
	}

	api := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))
	sm := socketmode.New(api)

	orchestrator := newOrchestrator(cfg, gateway.NewSlackReporter(api))
	listener := gateway.NewListener(sm, orchestrator, cfg.Channel, cfg.BotToken)

	return listener.Run(signals.GracefulContext(context.Background()))
}
