// Package transcoder normalizes arbitrary audio/video input into the fixed
// mono 16 kHz 16-bit PCM WAV format the analysis backends consume, by
// delegating decode/resample work to ffmpeg as an isolated subprocess.
package transcoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/transpal/transpal-bot/core/pipeline"
	"github.com/transpal/transpal-bot/core/schema"
	"github.com/transpal/transpal-bot/pkg/audio"
)

// enhanceFilters is the fixed voice-enhancement chain applied when enabled:
// rumble removal, broadband denoise, loudness normalization.
const enhanceFilters = "highpass=f=200,afftdn=nf=-25,loudnorm"

// FFmpeg converts input media through the system ffmpeg binary.
type FFmpeg struct {
	// TempDir holds the per-run intermediate files. Empty means the
	// system temp directory.
	TempDir string
	// EnhanceAudio pipes the decode through the enhancement filter chain.
	EnhanceAudio bool
}

// Normalize writes raw to a uniquely named temp file, converts it to the
// target WAV format, and returns the converted bytes plus their duration.
// Both intermediate files are removed before returning, on every path.
func (f *FFmpeg) Normalize(ctx context.Context, raw []byte, ext string) (schema.NormalizedAudio, error) {
	dir := f.TempDir
	if dir == "" {
		dir = os.TempDir()
	}

	id := uuid.NewString()
	src := filepath.Join(dir, fmt.Sprintf("transpal-%s.%s", id, ext))
	dst := filepath.Join(dir, fmt.Sprintf("transpal-%s_ff.wav", id))

	if err := os.WriteFile(src, raw, 0o600); err != nil {
		return schema.NormalizedAudio{}, &pipeline.TranscodeError{Err: fmt.Errorf("writing temp input: %w", err)}
	}
	defer os.Remove(src)
	defer os.Remove(dst)

	args := []string{"-y", "-i", src, "-ar", fmt.Sprint(audio.TargetSampleRate), "-ac", "1", "-acodec", "pcm_s16le"}
	if f.EnhanceAudio {
		args = append(args, "-af", enhanceFilters)
	}
	args = append(args, dst)

	out, err := ffmpegCommand(ctx, args)
	if err != nil {
		return schema.NormalizedAudio{}, &pipeline.TranscodeError{Output: out, Err: err}
	}

	wavBytes, err := os.ReadFile(dst)
	if err != nil {
		return schema.NormalizedAudio{}, &pipeline.TranscodeError{Err: fmt.Errorf("reading converted wav: %w", err)}
	}

	duration, err := audio.Probe(wavBytes)
	if err != nil {
		return schema.NormalizedAudio{}, &pipeline.TranscodeError{Err: err}
	}

	log.Debug().Str("src", src).Float64("duration", duration).Msg("audio normalized")

	return schema.NormalizedAudio{WAV: wavBytes, DurationSeconds: duration}, nil
}

func ffmpegCommand(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...) // Constrain this to ffmpeg to permit security scanner to see that the command is safe.
	out, err := cmd.CombinedOutput()
	return string(out), err
}
