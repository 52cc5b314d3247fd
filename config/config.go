// SPDX-License-Identifier: MIT

// Package config loads and validates the YAML run configuration of the
// eigentrust command and maps it onto localtrust and propagate options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/eigentrust/localtrust"
	"github.com/katalvlaran/eigentrust/propagate"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// validate checks the struct tags below; field names in its errors are the
// dotted yaml keys ("propagation.epsilon").
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ErrInvalidConfiguration is propagate's sentinel; Validate wraps it.
var ErrInvalidConfiguration = propagate.ErrInvalidConfiguration

// Fallback policy names.
const (
	FallbackUniform  = "uniform"
	FallbackPreTrust = "pretrust"
)

// Config represents the complete configuration of one run.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Propagation PropagationConfig `yaml:"propagation"`
	Log         LogConfig         `yaml:"log"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// InputConfig holds the count matrix sources.
type InputConfig struct {
	// Peers pins M; 0 takes M from the matrices.
	Peers     int    `yaml:"peers" validate:"gte=0"`
	SatPath   string `yaml:"sat" validate:"required"`
	UnsatPath string `yaml:"unsat" validate:"required"`
	Seed      int64  `yaml:"seed"`
}

// PropagationConfig holds solver settings.
type PropagationConfig struct {
	Variant       string  `yaml:"variant" validate:"required"`
	Epsilon       float64 `yaml:"epsilon" validate:"gt=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"gt=0"`
	Depth         int     `yaml:"depth" validate:"gt=0"`
	StartPeer     int     `yaml:"start_peer" validate:"gte=0"`
	Damping       float64 `yaml:"damping"`
	// PreTrust is an explicit P. When empty, PreTrustedPeers share 1
	// equally; when both are empty P is uniform.
	PreTrust        []float64 `yaml:"pre_trust" validate:"dive,gte=0"`
	PreTrustedPeers []int     `yaml:"pre_trusted_peers" validate:"unique,dive,gte=0"`
	Fallback        string    `yaml:"fallback" validate:"oneof=uniform pretrust"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig holds metric export settings.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus metrics of the run.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Input: InputConfig{
			SatPath:   "sat_downloads.csv",
			UnsatPath: "unsat_downloads.csv",
		},
		Propagation: PropagationConfig{
			Variant:       propagate.Plain.String(),
			Epsilon:       propagate.DefaultEpsilon,
			MaxIterations: propagate.DefaultMaxIterations,
			Depth:         propagate.DefaultDepth,
			Damping:       0.15,
			Fallback:      FallbackUniform,
		},
		Log: LogConfig{Level: zerolog.InfoLevel.String()},
	}
}

// FromEnv returns Default with EIGENTRUST_* overrides applied, validated.
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// applyEnvOverrides applies EIGENTRUST_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EIGENTRUST_SAT"); v != "" {
		c.Input.SatPath = v
	}
	if v := os.Getenv("EIGENTRUST_UNSAT"); v != "" {
		c.Input.UnsatPath = v
	}
	if v := os.Getenv("EIGENTRUST_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks every field that does not depend on M.
// All failures wrap ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			return invalidf("%s=%v violates %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Value(), rule)
		}
		return invalidf("%v", err)
	}

	p := &c.Propagation
	v, err := propagate.ParseVariant(p.Variant)
	if err != nil {
		return fmt.Errorf("propagation.variant: %w", err)
	}
	if len(p.PreTrust) > 0 && len(p.PreTrustedPeers) > 0 {
		return invalidf("propagation.pre_trust and propagation.pre_trusted_peers are mutually exclusive")
	}
	if math.IsInf(p.Epsilon, 1) {
		return invalidf("propagation.epsilon=%g must be finite", p.Epsilon)
	}
	if v == propagate.Damped && !(p.Damping > 0 && p.Damping < 1) {
		return invalidf("propagation.damping=%g must lie in (0,1)", p.Damping)
	}
	for i, x := range p.PreTrust {
		if math.IsInf(x, 0) {
			return invalidf("propagation.pre_trust[%d]=%g must be finite", i, x)
		}
	}
	if c.Input.Peers > 0 {
		for _, peer := range p.PreTrustedPeers {
			if peer >= c.Input.Peers {
				return invalidf("propagation.pre_trusted_peers: peer %d out of range [0,%d)", peer, c.Input.Peers)
			}
		}
	}
	if _, err = zerolog.ParseLevel(c.Log.Level); err != nil {
		return invalidf("log.level=%q: %v", c.Log.Level, err)
	}

	return nil
}

// Variant returns the parsed propagation variant.
func (c *Config) Variant() (propagate.Variant, error) {
	return propagate.ParseVariant(c.Propagation.Variant)
}

// PreTrustVector resolves P for m peers.
func (c *Config) PreTrustVector(m int) ([]float64, error) {
	if m <= 0 {
		return nil, invalidf("peer count %d must be positive", m)
	}
	p := &c.Propagation
	if len(p.PreTrust) > 0 {
		if len(p.PreTrust) != m {
			return nil, invalidf("propagation.pre_trust has %d entries, want %d", len(p.PreTrust), m)
		}
		return append([]float64(nil), p.PreTrust...), nil
	}

	out := make([]float64, m)
	if len(p.PreTrustedPeers) == 0 {
		for i := range out {
			out[i] = 1 / float64(m)
		}
		return out, nil
	}
	share := 1 / float64(len(p.PreTrustedPeers))
	for _, peer := range p.PreTrustedPeers {
		if peer >= m {
			return nil, invalidf("propagation.pre_trusted_peers: peer %d out of range [0,%d)", peer, m)
		}
		out[peer] = share
	}

	return out, nil
}

// LocalTrustOptions maps the configuration onto localtrust options for m peers.
func (c *Config) LocalTrustOptions(m int) ([]localtrust.Option, error) {
	var opts []localtrust.Option
	if c.Input.Peers > 0 {
		opts = append(opts, localtrust.WithPeers(c.Input.Peers))
	}
	if c.Propagation.Fallback == FallbackPreTrust {
		p, err := c.PreTrustVector(m)
		if err != nil {
			return nil, err
		}
		fb, err := localtrust.PreTrustFallback(p)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		opts = append(opts, localtrust.WithFallback(fb))
	}

	return opts, nil
}

// PropagateOptions maps the configuration onto propagate options for m peers.
// P is only resolved for the damped variant.
func (c *Config) PropagateOptions(m int, logger zerolog.Logger) ([]propagate.Option, error) {
	v, err := c.Variant()
	if err != nil {
		return nil, err
	}
	p := &c.Propagation
	opts := []propagate.Option{
		propagate.WithVariant(v),
		propagate.WithEpsilon(p.Epsilon),
		propagate.WithMaxIterations(p.MaxIterations),
		propagate.WithDepth(p.Depth),
		propagate.WithStartPeer(p.StartPeer),
		propagate.WithLogger(logger),
	}
	if v == propagate.Damped {
		pt, err := c.PreTrustVector(m)
		if err != nil {
			return nil, err
		}
		opts = append(opts, propagate.WithDamping(p.Damping), propagate.WithPreTrust(pt))
	}

	return opts, nil
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfiguration)
}
