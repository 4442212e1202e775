package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/transpal/transpal-bot/core/config"
)

var _ = Describe("ApplicationConfig", func() {
	It("defaults to parallel analysis with a generous HTTP timeout", func() {
		cfg := config.NewApplicationConfig()
		Expect(cfg.ParallelAnalysis).To(BeTrue())
		Expect(cfg.DropUnattributed).To(BeFalse())
		Expect(cfg.HTTPTimeout).To(Equal(10 * time.Minute))
	})

	It("applies functional options", func() {
		cfg := config.NewApplicationConfig(
			config.WithBotToken("xoxb-1"),
			config.WithChannel("C42"),
			config.WithDiarizer("https://diarize.example.com", "hf-2"),
		)
		Expect(cfg.BotToken).To(Equal("xoxb-1"))
		Expect(cfg.Channel).To(Equal("C42"))
		Expect(cfg.DiarizerURL).To(Equal("https://diarize.example.com"))
		Expect(cfg.DiarizerToken).To(Equal("hf-2"))
	})

	It("merges a YAML policy file over the defaults", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "transpal.yaml")
		Expect(os.WriteFile(path, []byte(`
drop_unattributed: true
enhance_audio: true
parallel_analysis: false
language: zh
transcribe_model: whisper-1
http_timeout: 5m
`), 0o600)).To(Succeed())

		cfg := config.NewApplicationConfig(config.WithBotToken("xoxb-1"))
		Expect(cfg.LoadFile(path)).To(Succeed())

		Expect(cfg.DropUnattributed).To(BeTrue())
		Expect(cfg.EnhanceAudio).To(BeTrue())
		Expect(cfg.ParallelAnalysis).To(BeFalse())
		Expect(cfg.Language).To(Equal("zh"))
		Expect(cfg.TranscribeModel).To(Equal("whisper-1"))
		Expect(cfg.HTTPTimeout).To(Equal(5 * time.Minute))
		// credentials never come from the file
		Expect(cfg.BotToken).To(Equal("xoxb-1"))
	})

	It("fails on unreadable config files", func() {
		cfg := config.NewApplicationConfig()
		Expect(cfg.LoadFile("/does/not/exist.yaml")).ToNot(Succeed())
	})

	It("fails on malformed YAML", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "broken.yaml")
		Expect(os.WriteFile(path, []byte("{{not yaml"), 0o600)).To(Succeed())

		cfg := config.NewApplicationConfig()
		Expect(cfg.LoadFile(path)).ToNot(Succeed())
	})
})
