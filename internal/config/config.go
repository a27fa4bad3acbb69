// Package config loads the settings shared by the wldtool commands.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/sting-wld/internal/logger"
)

// Config holds all toolkit settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Unpack  UnpackConfig  `yaml:"unpack"`
	Pack    PackConfig    `yaml:"pack"`
	Export  ExportConfig  `yaml:"export"`
}

// LoggingConfig holds logging settings. The rotation keys only matter when
// File is set.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Format     string `yaml:"format"` // console or json, file output only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// UnpackConfig holds settings for unpacking and packing worlds.
type UnpackConfig struct {
	Workers      int    `yaml:"workers"`       // 0 = one per CPU
	Compression  string `yaml:"compression"`   // none, lz4 or zstd
	VerifyModels bool   `yaml:"verify_models"` // decode every model while unpacking
}

// PackConfig holds settings that only apply when packing.
type PackConfig struct {
	Verify bool `yaml:"verify"` // decode the written world again
}

// ExportConfig holds texture export settings.
type ExportConfig struct {
	Format      string `yaml:"format"` // webp or tiff
	SubTextures bool   `yaml:"sub_textures"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Unpack: UnpackConfig{Compression: "none"},
		Pack:   PackConfig{Verify: true},
		Export: ExportConfig{Format: "webp"},
	}
}

// Settings converts the logging section for logger.Init.
func (l LoggingConfig) Settings() logger.Settings {
	return logger.Settings{
		Level:      l.Level,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
		JSON:       l.Format == "json",
	}
}

// Validate reports settings the toolkit cannot act on.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("logging: rotation limits must not be negative")
	}
	switch c.Unpack.Compression {
	case "", "none", "lz4", "zstd":
	default:
		return fmt.Errorf("unpack.compression: unknown codec %q", c.Unpack.Compression)
	}
	if c.Unpack.Workers < 0 {
		return fmt.Errorf("unpack.workers: %d is negative", c.Unpack.Workers)
	}
	switch c.Export.Format {
	case "webp", "tiff":
	default:
		return fmt.Errorf("export.format: unknown format %q", c.Export.Format)
	}
	return nil
}
