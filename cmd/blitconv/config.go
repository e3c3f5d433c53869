package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/pixel"
)

// backendMemory keeps every bitmap in system memory, without a display.
const backendMemory = "memory"

// config holds the settings that can come from a TOML file. Command-line
// flags override them.
//
//	format = "RGBA8"
//	flags = "MinLinear|MagLinear"
//	mask = "#ff00ff"
//	backend = "headless"
//	jpeg_quality = 85
type config struct {
	Format      string `toml:"format"`
	Flags       string `toml:"flags"`
	Mask        string `toml:"mask"`
	Backend     string `toml:"backend"`
	JPEGQuality int    `toml:"jpeg_quality"`
}

func defaultConfig() config {
	return config{
		Format:      pixel.FormatAny.String(),
		Backend:     backendMemory,
		JPEGQuality: 90,
	}
}

// defaultConfigPath returns the per-user config file location.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blitconv", "config.toml")
}

// loadConfig reads path over the defaults. A missing file is not an error
// when optional is set.
func loadConfig(path string, optional bool) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// settings are the parsed, validated form of a config.
type settings struct {
	format  pixel.Format
	flags   blit.BitmapFlags
	mask    pixel.Color
	hasMask bool
	backend string
	quality int
}

func (c config) settings() (settings, error) {
	s := settings{backend: strings.ToLower(strings.TrimSpace(c.Backend)), quality: c.JPEGQuality}
	if s.backend == "" {
		s.backend = backendMemory
	}

	var err error
	s.format, err = pixel.ParseFormat(c.Format)
	if err != nil {
		return s, fmt.Errorf("format %q: %w", c.Format, err)
	}

	var unknown []string
	s.flags, unknown = blit.ParseBitmapFlags(c.Flags)
	if len(unknown) > 0 {
		return s, fmt.Errorf("unknown bitmap flags: %s", strings.Join(unknown, ", "))
	}

	if c.Mask != "" {
		var ok bool
		if s.mask, ok = pixel.Hex(c.Mask); !ok {
			return s, fmt.Errorf("mask color %q: want RGB, RRGGBB or RRGGBBAA hex", c.Mask)
		}
		s.hasMask = true
	}

	if s.quality < 1 || s.quality > 100 {
		return s, fmt.Errorf("jpeg_quality %d out of range 1-100", s.quality)
	}
	return s, nil
}
