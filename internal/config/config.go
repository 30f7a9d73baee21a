// Package config loads Nova's settings: defaults, then an optional YAML file,
// then NOVA_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/nova/internal/runtime"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NOVA_"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "nova.yaml"

type Config struct {
	Log     LogConfig    `yaml:"log" envPrefix:"LOG_"`
	Timing  TimingConfig `yaml:"timing" envPrefix:"TIMING_"`
	Voice   VoiceConfig  `yaml:"voice" envPrefix:"VOICE_"`
	Asset   AssetConfig  `yaml:"asset" envPrefix:"ASSET_"`
	Anchors []string     `yaml:"anchors" env:"ANCHORS" envSeparator:","`
	Server  ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Redis   RedisConfig  `yaml:"redis" envPrefix:"REDIS_"`
	// Steps is a YAML content file replacing the embedded steps.
	Steps string `yaml:"steps" env:"STEPS"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// TimingConfig mirrors runtime.Timing. YAML values are duration strings ("25ms").
type TimingConfig struct {
	Reveal        time.Duration `yaml:"reveal" env:"REVEAL"`
	Options       time.Duration `yaml:"options" env:"OPTIONS"`
	FeedbackClose time.Duration `yaml:"feedback_close" env:"FEEDBACK_CLOSE"`
	Greet         time.Duration `yaml:"greet" env:"GREET"`
}

type VoiceConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Command is the speech binary. Empty picks espeak or say from PATH.
	Command string   `yaml:"command" env:"COMMAND"`
	Pitch   float64  `yaml:"pitch" env:"PITCH"`
	Rate    float64  `yaml:"rate" env:"RATE"`
	Voices  []string `yaml:"voices" env:"VOICES" envSeparator:","`
}

type AssetConfig struct {
	Name        string `yaml:"name" env:"NAME"`
	SourceDir   string `yaml:"source_dir" env:"SOURCE_DIR"`
	DownloadDir string `yaml:"download_dir" env:"DOWNLOAD_DIR"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr" env:"ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// RedisConfig selects the Redis session store. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"ADDR"`
	Password string        `yaml:"password" env:"PASSWORD"`
	DB       int           `yaml:"db" env:"DB"`
	Prefix   string        `yaml:"prefix" env:"PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
}

// Default returns the stock configuration.
func Default() Config {
	t := runtime.DefaultTiming()
	return Config{
		Log: LogConfig{Level: "info"},
		Timing: TimingConfig{
			Reveal:        t.RevealInterval,
			Options:       t.OptionsDelay,
			FeedbackClose: t.FeedbackCloseDelay,
			Greet:         t.GreetDelay,
		},
		Voice: VoiceConfig{
			Enabled: true,
			Pitch:   1.2,
			Rate:    1.0,
			Voices:  []string{"Google US English", "Microsoft Zira"},
		},
		Asset: AssetConfig{
			Name:        runtime.DefaultAssetName,
			SourceDir:   "assets",
			DownloadDir: ".",
		},
		Anchors: []string{"#contact", "#skills", "#projects"},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Prefix: "nova:session:",
		},
	}
}

// Load builds the configuration. With an empty path, DefaultFile is read if
// it exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	for name, d := range map[string]time.Duration{
		"timing.reveal":         c.Timing.Reveal,
		"timing.options":        c.Timing.Options,
		"timing.feedback_close": c.Timing.FeedbackClose,
		"timing.greet":          c.Timing.Greet,
		"redis.ttl":             c.Redis.TTL,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	for _, a := range c.Anchors {
		if len(a) < 2 || !strings.HasPrefix(a, "#") {
			errs = append(errs, fmt.Errorf("anchor %q must look like #id", a))
		}
	}
	if c.Voice.Pitch < 0 || c.Voice.Rate <= 0 {
		errs = append(errs, fmt.Errorf("voice pitch must be >= 0 and rate > 0"))
	}
	return errors.Join(errs...)
}

// EngineTiming converts the timing section for the engine.
func (c Config) EngineTiming() runtime.Timing {
	return runtime.Timing{
		RevealInterval:     c.Timing.Reveal,
		OptionsDelay:       c.Timing.Options,
		FeedbackCloseDelay: c.Timing.FeedbackClose,
		GreetDelay:         c.Timing.Greet,
	}
}
