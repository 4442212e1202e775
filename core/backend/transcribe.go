package backend

import (
	"bytes"
	"context"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/transpal/transpal-bot/core/schema"
)

// Transcriber converts normalized audio into timed text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audio schema.NormalizedAudio) ([]schema.TranscriptSegment, error)
}

// OpenAITranscriber runs speech-to-text through the OpenAI audio
// transcription API, requesting verbose JSON so segment timestamps come
// back with the text.
type OpenAITranscriber struct {
	client *openai.Client

	// Model defaults to whisper-1 when empty.
	Model string
	// Language hints the spoken language (ISO-639-1), empty for auto.
	Language string
	// Prompt seeds the decoder, e.g. to steer punctuation or locale.
	Prompt string
}

// NewOpenAITranscriber builds a transcriber authenticated with apiKey.
func NewOpenAITranscriber(apiKey string) *OpenAITranscriber {
	return &OpenAITranscriber{client: openai.NewClient(apiKey)}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio schema.NormalizedAudio) ([]schema.TranscriptSegment, error) {
	model := t.Model
	if model == "" {
		model = openai.Whisper1
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio.WAV),
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: t.Language,
		Prompt:   t.Prompt,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	})
	if err != nil {
		return nil, err
	}

	segments := make([]schema.TranscriptSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, schema.TranscriptSegment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	log.Debug().Int("segments", len(segments)).Str("model", model).Msg("transcription done")
	return segments, nil
}
