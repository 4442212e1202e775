package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// Target format shared by both analysis backends.
const (
	TargetSampleRate = 16000
	TargetChannels   = 1
	TargetBitDepth   = 16
)

// WAVHeader represents the WAV file header (44 bytes for PCM).
type WAVHeader struct {
	// RIFF chunk (12 bytes)
	ChunkID   [4]byte
	ChunkSize uint32
	Format    [4]byte

	// fmt subchunk (16 bytes)
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16

	// data subchunk (8 bytes)
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// NewWAVHeader builds a header for mono 16-bit PCM at the given sample rate.
func NewWAVHeader(pcmLen uint32, sampleRate uint32) WAVHeader {
	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16, // PCM
		AudioFormat:   1,  // PCM
		NumChannels:   TargetChannels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * 2,
		BlockAlign:    2,
		BitsPerSample: TargetBitDepth,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: pcmLen,
	}
	header.ChunkSize = 36 + header.Subchunk2Size
	return header
}

func (h *WAVHeader) Write(writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, h)
}

// Probe validates that data is a WAV container in the target format
// (16 kHz, mono, 16-bit PCM) and returns its duration in seconds.
func Probe(data []byte) (float64, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("not a valid wav file")
	}
	if dec.SampleRate != TargetSampleRate || dec.NumChans != TargetChannels || dec.BitDepth != TargetBitDepth {
		return 0, fmt.Errorf("unexpected wav format: %d Hz, %d ch, %d bit",
			dec.SampleRate, dec.NumChans, dec.BitDepth)
	}

	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("reading wav duration: %w", err)
	}
	return d.Seconds(), nil
}
