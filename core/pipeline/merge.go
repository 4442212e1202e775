package pipeline

import (
	"strings"

	"github.com/google/uuid"

	"github.com/transpal/transpal-bot/core/schema"
)

// MergePolicy controls how the merger treats transcript segments that no
// diarization turn overlaps.
type MergePolicy struct {
	// DropUnattributed discards entries with no speaker instead of
	// emitting them with a null speaker.
	DropUnattributed bool
}

// Merge fuses diarization turns and transcript segments into annotated
// entries. Segments are visited in their given order, which is also the
// output order; the merger never re-sorts. For each segment the speaker of
// the turn with maximal temporal overlap wins; equal overlaps prefer the
// turn with the smaller start. A segment no turn overlaps is emitted
// unattributed, or skipped entirely under DropUnattributed.
//
// Complexity is O(turns x segments), which is fine for the per-file counts
// this pipeline sees (tens to low hundreds of each).
func Merge(turns []schema.SpeechTurn, segments []schema.TranscriptSegment, policy MergePolicy) []schema.AnnotatedEntry {
	entries := make([]schema.AnnotatedEntry, 0, len(segments))

	for _, seg := range segments {
		speaker, attributed := bestSpeaker(turns, seg)
		if !attributed && policy.DropUnattributed {
			continue
		}

		entry := schema.AnnotatedEntry{
			ID:    newEntryID(),
			Start: seg.Start,
			End:   seg.End,
			Type:  schema.EntryTypeSpeech,
			Text:  seg.Text,
		}
		if attributed {
			s := speaker
			entry.Speaker = &s
		}
		entries = append(entries, entry)
	}

	return entries
}

// bestSpeaker selects the turn with maximal overlap against the segment.
// Ties on overlap resolve to the turn with the earlier start, which keeps
// the assignment deterministic for any input order of turns.
func bestSpeaker(turns []schema.SpeechTurn, seg schema.TranscriptSegment) (string, bool) {
	var (
		best        schema.SpeechTurn
		bestOverlap float64
		found       bool
	)

	for _, turn := range turns {
		ov := overlap(turn, seg)
		switch {
		case !found, ov > bestOverlap:
			best, bestOverlap, found = turn, ov, true
		case ov == bestOverlap && turn.Start < best.Start:
			best = turn
		}
	}

	if !found || bestOverlap <= 0 {
		return "", false
	}
	return best.Speaker, true
}

func overlap(turn schema.SpeechTurn, seg schema.TranscriptSegment) float64 {
	lo := turn.Start
	if seg.Start > lo {
		lo = seg.Start
	}
	hi := turn.End
	if seg.End < hi {
		hi = seg.End
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// newEntryID returns a short random token for downstream referencing.
// Eight hex characters carry 32 bits of entropy, comfortably above the
// collision floor for result sizes in the hundreds of entries.
func newEntryID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
