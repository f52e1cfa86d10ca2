package grid

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid grid config")

// Config holds the quantization parameters of an index.
//
// A Config is a plain value. Once handed to NewQuantizer it is copied and
// cannot be changed for the lifetime of that Quantizer.
type Config struct {
	// GCWidth is the width of one GC level (default 0.02, 50 levels).
	GCWidth float64 `yaml:"gc_width" envconfig:"GC_WIDTH" default:"0.02"`
	// HHWidth is the width of one HH level.
	HHWidth float64 `yaml:"hh_width" envconfig:"HH_WIDTH" default:"0.02"`
	// CAGAWidth is the width of one CAGA level.
	CAGAWidth float64 `yaml:"caga_width" envconfig:"CAGA_WIDTH" default:"0.02"`
	// DepthLevelMult is the number of depth levels per doubling of coverage.
	DepthLevelMult float64 `yaml:"depth_level_mult" envconfig:"DEPTH_LEVEL_MULT" default:"1"`
	// MaxDepth caps coverage before the logarithm is taken.
	MaxDepth float64 `yaml:"max_depth" envconfig:"MAX_DEPTH" default:"1000000"`
	// HHDifMult scales the GC tolerance into an HH tolerance.
	HHDifMult float64 `yaml:"hh_dif_mult" envconfig:"HH_DIF_MULT" default:"1"`
	// CAGADifMult scales the GC tolerance into a CAGA tolerance.
	CAGADifMult float64 `yaml:"caga_dif_mult" envconfig:"CAGA_DIF_MULT" default:"1"`
	// KeyType selects the dimensionality variant, or "auto".
	KeyType KeyType `yaml:"key_type" envconfig:"KEY_TYPE" default:"auto"`
}

// DefaultConfig returns the default configuration with KeyAuto.
func DefaultConfig() Config {
	return Config{
		GCWidth:        0.02,
		HHWidth:        0.02,
		CAGAWidth:      0.02,
		DepthLevelMult: 1,
		MaxDepth:       1_000_000,
		HHDifMult:      1,
		CAGADifMult:    1,
		KeyType:        KeyAuto,
	}
}

// Validate checks every field and returns the first violation.
func (c Config) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"gc_width", c.GCWidth},
		{"hh_width", c.HHWidth},
		{"caga_width", c.CAGAWidth},
	} {
		if !(w.value > 0 && w.value <= 1) {
			return fmt.Errorf("%w: %s must be in (0, 1], got %v", ErrInvalidConfig, w.name, w.value)
		}
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"depth_level_mult", c.DepthLevelMult},
		{"max_depth", c.MaxDepth},
		{"hh_dif_mult", c.HHDifMult},
		{"caga_dif_mult", c.CAGADifMult},
	} {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}
	if _, err := ParseKeyType(string(c.KeyType)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Resolve replaces KeyAuto, in any letter case, with the variant chosen by
// SelectKeyType. Concrete names are only normalized to lower case.
func (c Config) Resolve(samples, contigs int) Config {
	if c.KeyType == "" {
		c.KeyType = KeyAuto
	}
	if kt, err := ParseKeyType(string(c.KeyType)); err == nil {
		c.KeyType = kt
	}
	if c.KeyType == KeyAuto {
		c.KeyType = SelectKeyType(samples, contigs)
	}
	return c
}

// normalize validates c and stores the canonical key type name.
func (c Config) normalize() (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.KeyType, _ = ParseKeyType(string(c.KeyType))
	return c, nil
}

// LoadConfigFromEnv reads a Config from environment variables, e.g.
// QUANTBIN_GC_WIDTH or QUANTBIN_KEY_TYPE for prefix "QUANTBIN".
// Unset variables keep their defaults.
func LoadConfigFromEnv(prefix string) (Config, error) {
	var c Config
	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.normalize()
}

// LoadConfigFile reads a YAML Config. Missing keys keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.normalize()
}
