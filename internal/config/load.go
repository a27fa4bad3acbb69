package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LocalFile is the config file looked up in the working directory.
const LocalFile = "wldtool.yaml"

// Load builds the effective settings. Later layers win: defaults, the
// config file, WLDTOOL_* environment variables, then flags.
func Load() (*Config, error) {
	cfg := Default()

	path, err := locate(*flagConfig)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.merge(path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// locate picks the config file. An explicit path must exist; otherwise the
// first of ./wldtool.yaml and the user file wins, and none is fine.
func locate(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return explicit, nil
	}
	for _, path := range []string{LocalFile, UserFile()} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// ConfigDir returns the per-user directory for wldtool settings.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sting-wld"
	}
	return filepath.Join(dir, "sting-wld")
}

// UserFile returns the per-user config file.
func UserFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// merge decodes the YAML file at path over c. Unknown keys fail so a
// misspelt option cannot silently keep its default.
func (c *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WLDTOOL_"

var envOverrides = []struct {
	name string
	set  func(c *Config, v string) error
}{
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FILE", func(c *Config, v string) error { c.Logging.File = v; return nil }},
	{"WORKERS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Unpack.Workers = n
		return err
	}},
	{"COMPRESSION", func(c *Config, v string) error { c.Unpack.Compression = v; return nil }},
	{"PACK_VERIFY", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Pack.Verify = b
		return err
	}},
	{"EXPORT_FORMAT", func(c *Config, v string) error { c.Export.Format = v; return nil }},
}

// applyEnv applies the WLDTOOL_* variables found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, o := range envOverrides {
		v, ok := lookup(EnvPrefix + o.name)
		if !ok || v == "" {
			continue
		}
		if err := o.set(c, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, o.name, err)
		}
	}
	return nil
}
