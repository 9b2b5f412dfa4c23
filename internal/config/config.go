package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/tlwire/internal/protocol/schema"
	"github.com/danmuck/tlwire/internal/protocol/session"
)

// Config is the resolved tlwire configuration.
type Config struct {
	Session     session.Config
	SchemaFiles []string
	LogLevel    string
}

type fileConfig struct {
	SchemaFiles       []string `toml:"schema_files"`
	CompressThreshold int      `toml:"compress_threshold"`
	AcksThreshold     int      `toml:"acks_threshold"`
	MaxFrameBytes     int64    `toml:"max_frame_bytes"`
	MaxUnpackedBytes  int      `toml:"max_unpacked_bytes"`
	MaxDepth          int      `toml:"max_depth"`
	LogLevel          string   `toml:"log_level"`
	ReconnectInitial  string   `toml:"reconnect_initial"`
	ReconnectMax      string   `toml:"reconnect_max"`
	ReconnectJitter   bool     `toml:"reconnect_jitter"`
}

func Default() Config {
	return Config{Session: session.DefaultConfig()}
}

// Load reads a TOML file over Default. Relative schema paths resolve against
// the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("schema_files") {
		dir := filepath.Dir(path)
		for _, f := range raw.SchemaFiles {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if !filepath.IsAbs(f) {
				f = filepath.Join(dir, f)
			}
			cfg.SchemaFiles = append(cfg.SchemaFiles, f)
		}
	}
	if meta.IsDefined("compress_threshold") {
		cfg.Session.CompressThreshold = raw.CompressThreshold
	}
	if meta.IsDefined("acks_threshold") {
		cfg.Session.AcksThreshold = raw.AcksThreshold
	}
	if meta.IsDefined("max_frame_bytes") {
		if raw.MaxFrameBytes <= 0 || raw.MaxFrameBytes > 1<<31 {
			return Config{}, fmt.Errorf("max_frame_bytes out of range: %d", raw.MaxFrameBytes)
		}
		cfg.Session.Frame.MaxPayloadBytes = uint32(raw.MaxFrameBytes)
	}
	if meta.IsDefined("max_unpacked_bytes") {
		cfg.Session.Decode.MaxUnpackedBytes = raw.MaxUnpackedBytes
	}
	if meta.IsDefined("max_depth") {
		cfg.Session.Decode.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("reconnect_initial") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReconnectInitial))
		if err != nil {
			return Config{}, fmt.Errorf("parse reconnect_initial: %w", err)
		}
		cfg.Session.Backoff.InitialDelay = d
	}
	if meta.IsDefined("reconnect_max") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReconnectMax))
		if err != nil {
			return Config{}, fmt.Errorf("parse reconnect_max: %w", err)
		}
		cfg.Session.Backoff.MaxDelay = d
	}
	if meta.IsDefined("reconnect_jitter") {
		cfg.Session.Backoff.Jitter = raw.ReconnectJitter
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	s := cfg.Session
	if s.CompressThreshold < 0 {
		return fmt.Errorf("compress_threshold must not be negative")
	}
	if s.AcksThreshold <= 0 {
		return fmt.Errorf("acks_threshold must be positive")
	}
	if s.Decode.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive")
	}
	if s.Decode.MaxUnpackedBytes <= 0 {
		return fmt.Errorf("max_unpacked_bytes must be positive")
	}
	if s.Backoff.MaxDelay > 0 && s.Backoff.InitialDelay > s.Backoff.MaxDelay {
		return fmt.Errorf("reconnect_initial %v exceeds reconnect_max %v", s.Backoff.InitialDelay, s.Backoff.MaxDelay)
	}
	return nil
}

// Schemas parses the configured schema files in order.
func (c Config) Schemas() ([]*schema.Schema, error) {
	out := make([]*schema.Schema, 0, len(c.SchemaFiles))
	for _, path := range c.SchemaFiles {
		s, err := schema.ParseFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
