package cli

import (
	"github.com/transpal/transpal-bot/core/backend"
	"github.com/transpal/transpal-bot/core/config"
	"github.com/transpal/transpal-bot/core/pipeline"
	"github.com/transpal/transpal-bot/pkg/downloader"
	"github.com/transpal/transpal-bot/pkg/transcoder"
)

// PipelineFlags is the pipeline policy surface shared by the run and
// transcript commands.
type PipelineFlags struct {
	ConfigFile         string `env:"TRANSPAL_CONFIG" type:"path" help:"YAML pipeline policy file" group:"pipeline"`
	TempDir            string `env:"TRANSPAL_TMPDIR" help:"Directory for run-scoped temporary files" group:"pipeline"`
	DropUnattributed   bool   `env:"TRANSPAL_DROP_UNATTRIBUTED" help:"Drop transcript segments no diarization turn overlaps instead of emitting them without a speaker" group:"pipeline"`
	EnhanceAudio       bool   `env:"TRANSPAL_ENHANCE_AUDIO" help:"Apply the voice-enhancement filter chain while normalizing audio" group:"pipeline"`
	SequentialAnalysis bool   `env:"TRANSPAL_SEQUENTIAL_ANALYSIS" help:"Run diarization and transcription one after the other instead of concurrently" group:"pipeline"`
	Language           string `env:"TRANSPAL_LANGUAGE" help:"Spoken-language hint for the transcription backend (ISO-639-1)" group:"pipeline"`
	InitialPrompt      string `env:"TRANSPAL_INITIAL_PROMPT" help:"Decoder prompt for the transcription backend, e.g. to steer punctuation" group:"pipeline"`
	TranscribeModel    string `env:"TRANSPAL_TRANSCRIBE_MODEL" help:"Transcription model name" group:"pipeline"`
}

// apply layers the policy file and then any explicit flags over cfg.
func (f *PipelineFlags) apply(cfg *config.ApplicationConfig) error {
	if f.ConfigFile != "" {
		if err := cfg.LoadFile(f.ConfigFile); err != nil {
			return err
		}
	}
	if f.TempDir != "" {
		cfg.TempDir = f.TempDir
	}
	if f.DropUnattributed {
		cfg.DropUnattributed = true
	}
	if f.EnhanceAudio {
		cfg.EnhanceAudio = true
	}
	if f.SequentialAnalysis {
		cfg.ParallelAnalysis = false
	}
	if f.Language != "" {
		cfg.Language = f.Language
	}
	if f.InitialPrompt != "" {
		cfg.InitialPrompt = f.InitialPrompt
	}
	if f.TranscribeModel != "" {
		cfg.TranscribeModel = f.TranscribeModel
	}
	return nil
}

// newOrchestrator assembles the pipeline from its production collaborators.
func newOrchestrator(cfg *config.ApplicationConfig, reporter pipeline.Reporter) *pipeline.Orchestrator {
	transcriber := backend.NewOpenAITranscriber(cfg.OpenAIKey)
	transcriber.Model = cfg.TranscribeModel
	transcriber.Language = cfg.Language
	transcriber.Prompt = cfg.InitialPrompt

	diarizer := &backend.HTTPDiarizer{
		URL:     cfg.DiarizerURL,
		Token:   cfg.DiarizerToken,
		Timeout: cfg.HTTPTimeout,
	}

	opts := []pipeline.Option{
		pipeline.WithMergePolicy(pipeline.MergePolicy{DropUnattributed: cfg.DropUnattributed}),
		pipeline.WithTempDir(cfg.TempDir),
	}
	if !cfg.ParallelAnalysis {
		opts = append(opts, pipeline.WithSequentialAnalysis())
	}

	return pipeline.New(
		&downloader.HTTPFetcher{Timeout: cfg.HTTPTimeout},
		&transcoder.FFmpeg{TempDir: cfg.TempDir, EnhanceAudio: cfg.EnhanceAudio},
		diarizer,
		transcriber,
		reporter,
		opts...,
	)
}
