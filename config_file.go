package outline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedConfigFormat is returned for config files that are neither
// YAML nor TOML.
var ErrUnsupportedConfigFormat = errors.New("outline: unsupported config format")

// ConfigFormat identifies an on-disk configuration encoding.
type ConfigFormat string

// Supported configuration formats.
const (
	FormatYAML ConfigFormat = "yaml"
	FormatTOML ConfigFormat = "toml"
)

// configFile is the serialized form of Config. Colors are hex strings and
// every field is optional; absent fields keep their DefaultConfig value.
type configFile struct {
	ColorA    *string  `yaml:"color_a" toml:"color_a"`
	ColorB    *string  `yaml:"color_b" toml:"color_b"`
	Thickness *float32 `yaml:"thickness" toml:"thickness"`
	Sharpness *float32 `yaml:"sharpness" toml:"sharpness"`
}

// LoadConfig reads an outline configuration from a .yaml, .yml or .toml file.
//
// Example YAML:
//
//	color_a: "#ff8000"
//	color_b: "#ffffff80"
//	thickness: 3
func LoadConfig(path string) (Config, error) {
	var format ConfigFormat
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("outline: read config: %w", err)
	}
	return DecodeConfig(bytes.NewReader(data), format)
}

// DecodeConfig parses a configuration in the given format and validates it.
func DecodeConfig(r io.Reader, format ConfigFormat) (Config, error) {
	var f configFile
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("outline: decode yaml config: %w", err)
		}
	case FormatTOML:
		if err := toml.NewDecoder(r).Decode(&f); err != nil {
			return Config{}, fmt.Errorf("outline: decode toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
	}

	cfg, err := f.apply(DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EncodeConfig writes cfg in the given format. Colors are written as
// #RRGGBBAA and round-trip at 8-bit precision.
func EncodeConfig(w io.Writer, cfg Config, format ConfigFormat) error {
	a, b := cfg.ColorA.String(), cfg.ColorB.String()
	f := configFile{ColorA: &a, ColorB: &b, Thickness: &cfg.Thickness, Sharpness: &cfg.Sharpness}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(&f); err != nil {
			return fmt.Errorf("outline: encode yaml config: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(&f); err != nil {
			return fmt.Errorf("outline: encode toml config: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, format)
	}
}

func (f *configFile) apply(cfg Config) (Config, error) {
	if f.ColorA != nil {
		c, err := ParseHex(*f.ColorA)
		if err != nil {
			return Config{}, fmt.Errorf("%w: color_a: %w", ErrInvalidConfig, err)
		}
		cfg.ColorA = c
	}
	if f.ColorB != nil {
		c, err := ParseHex(*f.ColorB)
		if err != nil {
			return Config{}, fmt.Errorf("%w: color_b: %w", ErrInvalidConfig, err)
		}
		cfg.ColorB = c
	}
	if f.Thickness != nil {
		cfg.Thickness = *f.Thickness
	}
	if f.Sharpness != nil {
		cfg.Sharpness = *f.Sharpness
	}
	return cfg, nil
}
