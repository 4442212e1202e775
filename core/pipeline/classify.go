package pipeline

import (
	"path/filepath"
	"strings"
)

// supportedExtensions is the container/codec allowlist inherited from the
// formats ffmpeg is expected to decode for this pipeline.
var supportedExtensions = map[string]struct{}{
	"mp3":  {},
	"wav":  {},
	"flac": {},
	"m4a":  {},
	"mkv":  {},
	"mp4":  {},
	"webm": {},
}

// SourceExtension extracts the lower-cased extension from a filename,
// without the dot. Empty when the filename carries none.
func SourceExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// SupportedMedia reports whether a file is worth processing at all, judged
// by its extension allowlist membership or an audio/video MIME type. It
// runs before acquisition so unsupported input costs no network fetch.
func SupportedMedia(filename, mimeType string) bool {
	if _, ok := supportedExtensions[SourceExtension(filename)]; ok {
		return true
	}
	return strings.HasPrefix(mimeType, "audio/") || strings.HasPrefix(mimeType, "video/")
}
