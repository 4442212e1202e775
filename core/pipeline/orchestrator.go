package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/transpal/transpal-bot/core/backend"
	"github.com/transpal/transpal-bot/core/schema"
	"github.com/transpal/transpal-bot/pkg/concurrency"
)

// State is the orchestrator's position in one run.
type State string

const (
	StateReceived    State = "received"
	StateAcquiring   State = "acquiring"
	StateNormalizing State = "normalizing"
	StateAnalyzing   State = "analyzing"
	StateMerging     State = "merging"
	StateReporting   State = "reporting"
	StateDone        State = "done"
	// StateRejected terminates runs on unsupported input. It is an
	// expected validation outcome, not a failure.
	StateRejected State = "rejected"
	StateFailed   State = "failed"
)

// Acquirer fetches a remote file into a local byte buffer.
type Acquirer interface {
	Fetch(ctx context.Context, url, credential string) ([]byte, error)
}

// AudioTranscoder converts raw container bytes into the fixed normalized
// format. The concrete mechanism (ffmpeg subprocess, library, remote
// service) is the implementation's business.
type AudioTranscoder interface {
	Normalize(ctx context.Context, raw []byte, ext string) (schema.NormalizedAudio, error)
}

// Orchestrator sequences one pipeline run: acquire, normalize, analyze
// (diarize + transcribe), merge, report. All collaborators are injected at
// construction; the orchestrator keeps no state across runs.
type Orchestrator struct {
	acquirer    Acquirer
	transcoder  AudioTranscoder
	diarizer    backend.Diarizer
	transcriber backend.Transcriber
	reporter    Reporter

	policy     MergePolicy
	tempDir    string
	sequential bool
}

// Option tweaks orchestrator behavior at construction.
type Option func(*Orchestrator)

// WithMergePolicy sets the unattributed-segment policy.
func WithMergePolicy(p MergePolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithTempDir sets where the serialized result artifact is staged before
// upload. Empty means the system temp directory.
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) { o.tempDir = dir }
}

// WithSequentialAnalysis runs diarization and transcription one after the
// other instead of concurrently. The merge result is identical either way.
func WithSequentialAnalysis() Option {
	return func(o *Orchestrator) { o.sequential = true }
}

// New wires an orchestrator from its collaborators.
func New(acquirer Acquirer, transcoder AudioTranscoder, diarizer backend.Diarizer, transcriber backend.Transcriber, reporter Reporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		acquirer:    acquirer,
		transcoder:  transcoder,
		diarizer:    diarizer,
		transcriber: transcriber,
		reporter:    reporter,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// analysis carries one backend's output plus its stage-local elapsed time.
type analysis[T any] struct {
	value   T
	elapsed float64
}

// Process runs the whole pipeline for one media reference and returns the
// terminal state. Every run is single-attempt: errors are relayed to the
// channel as one failure notification and never retried. Temp resources
// are released on success and failure alike.
func (o *Orchestrator) Process(ctx context.Context, media schema.MediaReference, ref ChannelRef) (State, error) {
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Str("file", media.Filename).Logger()
	logger.Info().Msg("run received")

	if !SupportedMedia(media.Filename, media.MimeType) {
		logger.Info().Str("mime", media.MimeType).Msg("unsupported media type, rejecting")
		msg := fmt.Sprintf("Unsupported file type: %s", SourceExtension(media.Filename))
		if err := o.reporter.NotifyProgress(ctx, ref, msg); err != nil {
			logger.Error().Err(err).Msg("failed to relay rejection notice")
		}
		return StateRejected, nil
	}

	state, err := o.run(ctx, runID, media, ref, logger)
	if err != nil {
		logger.Error().Err(err).Str("state", string(state)).Msg("run failed")
		if nerr := o.reporter.NotifyFailure(ctx, ref, err.Error()); nerr != nil {
			logger.Error().Err(nerr).Msg("failed to relay failure notification")
		}
		return StateFailed, err
	}
	logger.Info().Msg("run done")
	return state, nil
}

func (o *Orchestrator) run(ctx context.Context, runID string, media schema.MediaReference, ref ChannelRef, logger zerolog.Logger) (State, error) {
	totalStart := time.Now()
	var timings schema.StageTimings

	if err := o.reporter.NotifyProgress(ctx, ref, fmt.Sprintf("Processing %s...", media.Filename)); err != nil {
		return StateReceived, &ReportingError{Err: err}
	}

	// acquire
	logger.Debug().Str("state", string(StateAcquiring)).Msg("stage start")
	stage := time.Now()
	raw, err := o.acquirer.Fetch(ctx, media.SourceURL, media.Credential)
	if err != nil {
		return StateAcquiring, &AcquisitionError{URL: media.SourceURL, Err: err}
	}
	timings.Download = time.Since(stage).Seconds()

	// normalize
	logger.Debug().Str("state", string(StateNormalizing)).Msg("stage start")
	stage = time.Now()
	audio, err := o.transcoder.Normalize(ctx, raw, SourceExtension(media.Filename))
	if err != nil {
		return StateNormalizing, err
	}
	raw = nil
	timings.Transcode = time.Since(stage).Seconds()

	// analyze: diarization and transcription consume the same immutable
	// audio and have no ordering dependency between them.
	logger.Debug().Str("state", string(StateAnalyzing)).Msg("stage start")
	turns, segments, err := o.analyze(ctx, audio, &timings)
	if err != nil {
		return StateAnalyzing, err
	}

	// merge
	logger.Debug().Str("state", string(StateMerging)).Msg("stage start")
	entries := Merge(turns, segments, o.policy)
	timings.Total = time.Since(totalStart).Seconds()
	result := schema.NewPipelineResult(media.Filename, entries, timings)

	// report
	logger.Debug().Str("state", string(StateReporting)).Msg("stage start")
	if err := o.report(ctx, runID, result, ref); err != nil {
		return StateReporting, err
	}

	return StateDone, nil
}

// analyze runs both backends and records each one's own execution window.
// Under concurrent analysis the two windows overlap in wall time; neither
// is ever attributed time spent in the other.
func (o *Orchestrator) analyze(ctx context.Context, audio schema.NormalizedAudio, timings *schema.StageTimings) ([]schema.SpeechTurn, []schema.TranscriptSegment, error) {
	diarize := func() (analysis[[]schema.SpeechTurn], error) {
		start := time.Now()
		turns, err := o.diarizer.Diarize(ctx, audio)
		if err != nil {
			return analysis[[]schema.SpeechTurn]{}, &BackendError{Stage: "diarize", Err: err}
		}
		return analysis[[]schema.SpeechTurn]{value: turns, elapsed: time.Since(start).Seconds()}, nil
	}
	transcribe := func() (analysis[[]schema.TranscriptSegment], error) {
		start := time.Now()
		segments, err := o.transcriber.Transcribe(ctx, audio)
		if err != nil {
			return analysis[[]schema.TranscriptSegment]{}, &BackendError{Stage: "transcribe", Err: err}
		}
		return analysis[[]schema.TranscriptSegment]{value: segments, elapsed: time.Since(start).Seconds()}, nil
	}

	if o.sequential {
		d, err := diarize()
		if err != nil {
			return nil, nil, err
		}
		t, err := transcribe()
		if err != nil {
			return nil, nil, err
		}
		timings.Diarize = d.elapsed
		timings.Transcribe = t.elapsed
		return d.value, t.value, nil
	}

	diarizeJob, diarizeResult := concurrency.NewJobResult[analysis[[]schema.SpeechTurn]]()
	transcribeJob, transcribeResult := concurrency.NewJobResult[analysis[[]schema.TranscriptSegment]]()

	go func() { diarizeResult.SetResult(diarize()) }()
	go func() { transcribeResult.SetResult(transcribe()) }()

	// The merge step is the synchronization point: wait for both before
	// touching either output. Both are awaited even when the first one
	// fails, so no goroutine outlives the run.
	d, derr := diarizeJob.Wait(ctx)
	t, terr := transcribeJob.Wait(ctx)
	if derr != nil {
		return nil, nil, derr
	}
	if terr != nil {
		return nil, nil, terr
	}

	timings.Diarize = d.elapsed
	timings.Transcribe = t.elapsed
	return d.value, t.value, nil
}

// report serializes the result, stages it on disk, uploads it as a threaded
// reply, and posts the completion message with per-stage timings. The local
// artifact copy is deleted whether or not the relay succeeds.
func (o *Orchestrator) report(ctx context.Context, runID string, result schema.PipelineResult, ref ChannelRef) error {
	data, err := json.Marshal(result)
	if err != nil {
		return &ReportingError{Err: fmt.Errorf("serializing result: %w", err)}
	}

	dir := o.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	artifactName := fmt.Sprintf("result-%s.json", runID)
	artifactPath := filepath.Join(dir, artifactName)
	if err := os.WriteFile(artifactPath, data, 0o600); err != nil {
		return &ReportingError{Err: fmt.Errorf("staging result artifact: %w", err)}
	}
	defer os.Remove(artifactPath)

	if err := o.reporter.NotifyCompletion(ctx, ref, result.Info.Filename, result.Timing); err != nil {
		return &ReportingError{Err: err}
	}
	if err := o.reporter.UploadArtifact(ctx, ref, artifactName, data); err != nil {
		return &ReportingError{Err: err}
	}
	return nil
}
