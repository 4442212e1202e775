package backend_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/transpal/transpal-bot/core/backend"
	"github.com/transpal/transpal-bot/core/schema"
)

var _ = Describe("HTTPDiarizer", func() {
	audio := schema.NormalizedAudio{WAV: []byte("RIFF-fake-wav"), DurationSeconds: 2.0}

	It("posts the wav body and decodes the returned turns", func() {
		var (
			gotAuth        string
			gotContentType string
			gotBody        []byte
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"start": 0.5, "end": 3.25, "speaker": "SPEAKER_00"},
				{"start": 3.25, "end": 7.0, "speaker": "SPEAKER_01"}
			]`))
		}))
		defer server.Close()

		diarizer := &backend.HTTPDiarizer{URL: server.URL, Token: "hf-token"}
		turns, err := diarizer.Diarize(context.Background(), audio)
		Expect(err).ToNot(HaveOccurred())

		Expect(gotAuth).To(Equal("Bearer hf-token"))
		Expect(gotContentType).To(Equal("audio/wav"))
		Expect(gotBody).To(Equal(audio.WAV))

		Expect(turns).To(HaveLen(2))
		Expect(turns[0]).To(Equal(schema.SpeechTurn{Start: 0.5, End: 3.25, Speaker: "SPEAKER_00"}))
		Expect(turns[1].Speaker).To(Equal("SPEAKER_01"))
	})

	It("surfaces the service's diagnostic body on non-2xx responses", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		diarizer := &backend.HTTPDiarizer{URL: server.URL}
		_, err := diarizer.Diarize(context.Background(), audio)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("503"))
		Expect(err.Error()).To(ContainSubstring("model not loaded"))
	})

	It("fails on malformed response payloads", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"unexpected": "shape"}`))
		}))
		defer server.Close()

		diarizer := &backend.HTTPDiarizer{URL: server.URL}
		_, err := diarizer.Diarize(context.Background(), audio)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("decoding diarization response"))
	})
})
