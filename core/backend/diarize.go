package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/transpal/transpal-bot/core/schema"
)

// Diarizer partitions normalized audio into per-speaker speech turns.
type Diarizer interface {
	Diarize(ctx context.Context, audio schema.NormalizedAudio) ([]schema.SpeechTurn, error)
}

// HTTPDiarizer dispatches the audio to a remote diarization service (a GPU
// worker running a speaker-diarization model) and blocks until the turn
// list comes back. The call is synchronous request/response with no
// streaming of partial results.
type HTTPDiarizer struct {
	// URL is the diarization service endpoint.
	URL string
	// Token authenticates against the service (model-access credential,
	// distinct from the chat-platform credential).
	Token string
	// Timeout bounds the inference call. Zero means no client timeout.
	Timeout time.Duration
}

// Diarize POSTs the WAV body and decodes the returned JSON array of
// {start, end, speaker} turns.
func (d *HTTPDiarizer) Diarize(ctx context.Context, audio schema.NormalizedAudio) ([]schema.SpeechTurn, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(audio.WAV))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "audio/wav")
	if d.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.Token)
	}

	client := &http.Client{Timeout: d.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarization service status %d: %s", resp.StatusCode, string(body))
	}

	var turns []schema.SpeechTurn
	if err := json.NewDecoder(resp.Body).Decode(&turns); err != nil {
		return nil, fmt.Errorf("decoding diarization response: %w", err)
	}

	log.Debug().Int("turns", len(turns)).Msg("diarization done")
	return turns, nil
}
