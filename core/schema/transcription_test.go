package schema_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/transpal/transpal-bot/core/schema"
)

var _ = Describe("PipelineResult", func() {
	It("round-trips through JSON field for field", func() {
		speaker := "SPEAKER_00"
		original := schema.NewPipelineResult("standup.mkv",
			[]schema.AnnotatedEntry{
				{ID: "a1b2c3d4", Start: 0.5, End: 2.25, Type: schema.EntryTypeSpeech, Speaker: &speaker, Text: "good morning"},
				{ID: "e5f6a7b8", Start: 2.5, End: 3.0, Type: schema.EntryTypeSpeech, Speaker: nil, Text: "(crosstalk)"},
			},
			schema.StageTimings{Download: 1.25, Transcode: 0.75, Diarize: 10.5, Transcribe: 8.25, Total: 21.0},
		)

		data, err := json.Marshal(original)
		Expect(err).ToNot(HaveOccurred())

		var parsed schema.PipelineResult
		Expect(json.Unmarshal(data, &parsed)).To(Succeed())
		Expect(parsed).To(Equal(original))
	})

	It("stamps the fixed artifact version", func() {
		result := schema.NewPipelineResult("a.wav", nil, schema.StageTimings{})
		Expect(result.Version).To(Equal("1.0"))
	})

	It("serializes unattributed entries with an explicit null speaker", func() {
		entry := schema.AnnotatedEntry{ID: "deadbeef", Type: schema.EntryTypeSpeech, Text: "hm"}
		data, err := json.Marshal(entry)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"speaker":null`))
	})

	It("parses diarization turns from the wire shape", func() {
		payload := `[{"start":0.031,"end":4.25,"speaker":"SPEAKER_01"}]`
		var turns []schema.SpeechTurn
		Expect(json.Unmarshal([]byte(payload), &turns)).To(Succeed())
		Expect(turns).To(HaveLen(1))
		Expect(turns[0].Speaker).To(Equal("SPEAKER_01"))
		Expect(turns[0].Start).To(Equal(0.031))
	})
})
