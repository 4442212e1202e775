package pipeline

import (
	"errors"
	"fmt"
)

// ValidationError rejects user-correctable input (unsupported file type,
// malformed event). It is not a defect: runs terminated by it end in the
// rejected state, not the failed one.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// AcquisitionError wraps a failure to fetch the source file.
type AcquisitionError struct {
	URL string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquiring %s: %v", e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// TranscodeError wraps a decoder subprocess failure. Output carries the
// subprocess's combined diagnostic output.
type TranscodeError struct {
	Output string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("transcoding audio: %v: %s", e.Err, e.Output)
	}
	return fmt.Sprintf("transcoding audio: %v", e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// BackendError wraps a diarization or transcription backend failure,
// including remote-compute dispatch failures and backend timeouts.
type BackendError struct {
	Stage string // "diarize" or "transcribe"
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Stage, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ReportingError wraps a failure to notify or upload through the outbound
// channel, detected late in the run.
type ReportingError struct {
	Err error
}

func (e *ReportingError) Error() string { return fmt.Sprintf("reporting result: %v", e.Err) }

func (e *ReportingError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
