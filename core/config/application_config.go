package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ApplicationConfig is the full configuration of one bot process.
// Credentials come from the environment; pipeline policy can additionally
// be loaded from a YAML file and is applied through functional options so
// the precedence is defaults < file < explicit options.
type ApplicationConfig struct {
	// Chat-platform credentials and routing.
	BotToken string `yaml:"-"`
	AppToken string `yaml:"-"`
	Channel  string `yaml:"channel"`

	// Model-access credentials.
	OpenAIKey     string `yaml:"-"`
	DiarizerURL   string `yaml:"diarizer_url"`
	DiarizerToken string `yaml:"-"`

	// Pipeline policy.
	DropUnattributed bool   `yaml:"drop_unattributed"`
	EnhanceAudio     bool   `yaml:"enhance_audio"`
	ParallelAnalysis bool   `yaml:"parallel_analysis"`
	TranscribeModel  string `yaml:"transcribe_model"`
	Language         string `yaml:"language"`
	InitialPrompt    string `yaml:"initial_prompt"`

	TempDir     string        `yaml:"temp_dir"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

type AppOption func(*ApplicationConfig)

// NewApplicationConfig builds a config from defaults plus options.
func NewApplicationConfig(o ...AppOption) *ApplicationConfig {
	opt := &ApplicationConfig{
		ParallelAnalysis: true,
		HTTPTimeout:      10 * time.Minute,
	}
	for _, oo := range o {
		oo(opt)
	}
	return opt
}

// fileConfig is the YAML shape of the policy file. Pointer fields
// distinguish "absent" from zero values so the merge never clobbers a
// default with an unset key.
type fileConfig struct {
	Channel          *string `yaml:"channel"`
	DiarizerURL      *string `yaml:"diarizer_url"`
	DropUnattributed *bool   `yaml:"drop_unattributed"`
	EnhanceAudio     *bool   `yaml:"enhance_audio"`
	ParallelAnalysis *bool   `yaml:"parallel_analysis"`
	TranscribeModel  *string `yaml:"transcribe_model"`
	Language         *string `yaml:"language"`
	InitialPrompt    *string `yaml:"initial_prompt"`
	TempDir          *string `yaml:"temp_dir"`
	HTTPTimeout      *string `yaml:"http_timeout"`
}

// LoadFile merges a YAML policy file over the current values. Credentials
// are never read from the file.
func (c *ApplicationConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setIfPresent(&c.Channel, fc.Channel)
	setIfPresent(&c.DiarizerURL, fc.DiarizerURL)
	setIfPresent(&c.DropUnattributed, fc.DropUnattributed)
	setIfPresent(&c.EnhanceAudio, fc.EnhanceAudio)
	setIfPresent(&c.ParallelAnalysis, fc.ParallelAnalysis)
	setIfPresent(&c.TranscribeModel, fc.TranscribeModel)
	setIfPresent(&c.Language, fc.Language)
	setIfPresent(&c.InitialPrompt, fc.InitialPrompt)
	setIfPresent(&c.TempDir, fc.TempDir)

	if fc.HTTPTimeout != nil {
		timeout, err := time.ParseDuration(*fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("parsing http_timeout in %s: %w", path, err)
		}
		c.HTTPTimeout = timeout
	}
	return nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func WithBotToken(token string) AppOption {
	return func(o *ApplicationConfig) { o.BotToken = token }
}

func WithAppToken(token string) AppOption {
	return func(o *ApplicationConfig) { o.AppToken = token }
}

func WithChannel(channel string) AppOption {
	return func(o *ApplicationConfig) { o.Channel = channel }
}

func WithOpenAIKey(key string) AppOption {
	return func(o *ApplicationConfig) { o.OpenAIKey = key }
}

func WithDiarizer(url, token string) AppOption {
	return func(o *ApplicationConfig) {
		o.DiarizerURL = url
		o.DiarizerToken = token
	}
}

func WithTempDir(dir string) AppOption {
	return func(o *ApplicationConfig) { o.TempDir = dir }
}
