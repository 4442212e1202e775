package schema

// ResultVersion is the artifact format version stamped on every PipelineResult.
const ResultVersion = "1.0"

// MediaReference identifies a remotely hosted source file. It is built at
// event receipt and discarded once the bytes have been acquired.
type MediaReference struct {
	Filename   string
	MimeType   string
	SourceURL  string
	Credential string
}

// NormalizedAudio is a complete WAV container holding mono 16 kHz signed
// 16-bit PCM, the fixed format both analysis backends consume.
type NormalizedAudio struct {
	WAV             []byte
	DurationSeconds float64
}

// SpeechTurn is one diarization interval: who spoke, when.
// Start < End always holds for well-formed turns.
type SpeechTurn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// TranscriptSegment is one timed text segment from the transcription
// backend. Segments arrive in non-decreasing Start order and are not
// re-sorted downstream.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// EntryTypeSpeech is the only entry type currently emitted by the merger.
const EntryTypeSpeech = "speech"

// AnnotatedEntry is one merged transcript unit. Speaker is nil when no
// diarization turn overlapped the segment. ID is a short random token,
// unique within one result; it carries no ordering semantics.
type AnnotatedEntry struct {
	ID      string  `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Type    string  `json:"type"`
	Speaker *string `json:"speaker"`
	Text    string  `json:"text"`
}

// StageTimings holds per-stage wall-clock durations in seconds. Each value
// is measured with a stage-local timer and reflects only that stage's
// execution window.
type StageTimings struct {
	Download   float64 `json:"download"`
	Transcode  float64 `json:"transcode"`
	Diarize    float64 `json:"diarize"`
	Transcribe float64 `json:"transcribe"`
	Total      float64 `json:"total"`
}

// ResultInfo carries source-file metadata into the result artifact.
type ResultInfo struct {
	Filename string `json:"filename"`
}

// PipelineResult is the versioned artifact produced once per successful run.
// It is immutable after creation.
type PipelineResult struct {
	Version string           `json:"version"`
	Info    ResultInfo       `json:"info"`
	Content []AnnotatedEntry `json:"content"`
	Timing  StageTimings     `json:"timing"`
}

// NewPipelineResult assembles the versioned result for one run.
func NewPipelineResult(filename string, content []AnnotatedEntry, timing StageTimings) PipelineResult {
	return PipelineResult{
		Version: ResultVersion,
		Info:    ResultInfo{Filename: filename},
		Content: content,
		Timing:  timing,
	}
}
