package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	cliContext "github.com/transpal/transpal-bot/core/cli/context"
	"github.com/transpal/transpal-bot/core/config"
	"github.com/transpal/transpal-bot/core/pipeline"
	"github.com/transpal/transpal-bot/core/schema"
	"github.com/transpal/transpal-bot/pkg/downloader"
)

type TranscriptCMD struct {
	Filename string `arg:"" help:"Local media file or http(s) URL to transcribe"`

	OpenAIKey     string `env:"OPENAI_API_KEY" required:"" help:"Credential for the transcription backend" group:"backends"`
	DiarizerURL   string `env:"DIARIZER_URL" required:"" help:"Endpoint of the remote diarization service" group:"backends"`
	DiarizerToken string `env:"DIARIZER_API_TOKEN" help:"Credential for the diarization service" group:"backends"`

	PipelineFlags `embed:""`
}

// Run executes one pipeline run outside the chat gateway and prints the
// result artifact to stdout.
func (t *TranscriptCMD) Run(ctx *cliContext.Context) error {
	cfg := config.NewApplicationConfig(
		config.WithOpenAIKey(t.OpenAIKey),
		config.WithDiarizer(t.DiarizerURL, t.DiarizerToken),
	)
	if err := t.PipelineFlags.apply(cfg); err != nil {
		return err
	}

	media, err := mediaFromArg(t.Filename)
	if err != nil {
		return err
	}

	orchestrator := newOrchestrator(cfg, &consoleReporter{})
	state, err := orchestrator.Process(context.Background(), media, pipeline.ChannelRef{})
	if err != nil {
		return err
	}
	if state == pipeline.StateRejected {
		return fmt.Errorf("unsupported file type: %s", pipeline.SourceExtension(media.Filename))
	}
	return nil
}

func mediaFromArg(arg string) (schema.MediaReference, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return schema.MediaReference{
			Filename:  filepath.Base(arg),
			SourceURL: arg,
		}, nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return schema.MediaReference{}, err
	}
	if _, err := os.Stat(abs); err != nil {
		return schema.MediaReference{}, err
	}
	return schema.MediaReference{
		Filename:  filepath.Base(abs),
		MimeType:  mime.TypeByExtension(filepath.Ext(abs)),
		SourceURL: downloader.LocalPrefix + abs,
	}, nil
}

// consoleReporter satisfies pipeline.Reporter for one-shot CLI runs:
// progress goes to stderr, the artifact JSON to stdout.
type consoleReporter struct{}

func (consoleReporter) NotifyProgress(_ context.Context, _ pipeline.ChannelRef, text string) error {
	fmt.Fprintln(os.Stderr, text)
	return nil
}

func (consoleReporter) NotifyFailure(_ context.Context, _ pipeline.ChannelRef, errMsg string) error {
	fmt.Fprintln(os.Stderr, "failed:", errMsg)
	return nil
}

func (consoleReporter) NotifyCompletion(_ context.Context, _ pipeline.ChannelRef, filename string, timings schema.StageTimings) error {
	fmt.Fprintf(os.Stderr, "%s done: download %.2fs, transcode %.2fs, diarize %.2fs, transcribe %.2fs, total %.2fs\n",
		filename, timings.Download, timings.Transcode, timings.Diarize, timings.Transcribe, timings.Total)
	return nil
}

func (consoleReporter) UploadArtifact(_ context.Context, _ pipeline.ChannelRef, _ string, data []byte) error {
	_, err := os.Stdout.Write(append(data, '\n'))
	return err
}
