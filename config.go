package gocas

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gocas/internal/casterr"
	"github.com/njchilds90/gocas/poly"
)

// ============================================================
// Configuration
// ============================================================

// Config holds the engine bounds. It is read on every operation through an
// atomic pointer, so Configure may be called while other goroutines work;
// each operation sees one consistent snapshot.
type Config struct {
	Simplify  SimplifyConfig  `yaml:"simplify"`
	Poly      PolyConfig      `yaml:"poly"`
	Integrate IntegrateConfig `yaml:"integrate"`
	Store     StoreConfig     `yaml:"store"`
}

// SimplifyConfig controls the simplifier.
type SimplifyConfig struct {
	// CacheEnabled turns on the in-memory LRU of simplified trees.
	CacheEnabled bool `yaml:"cache_enabled"`
	// CacheSize is the LRU capacity in entries.
	CacheSize int `yaml:"cache_size" validate:"gte=0,lte=10000000"`
	// MaxPowBits bounds exact integer powers: b^n is evaluated only when
	// bitlen(b)·|n| stays under this limit.
	MaxPowBits int `yaml:"max_pow_bits" validate:"gte=64"`
}

// PolyConfig mirrors poly.Config.
type PolyConfig struct {
	MaxEvalPoints         int   `yaml:"max_eval_points" validate:"gte=1"`
	MaxCRTIterations      int   `yaml:"max_crt_iterations" validate:"gte=2"`
	GroebnerMaxIterations int   `yaml:"groebner_max_iterations" validate:"gte=1"`
	Workers               int   `yaml:"workers" validate:"gte=0,lte=1024"`
	Seed                  int64 `yaml:"seed"`
}

// IntegrateConfig bounds the integrator.
type IntegrateConfig struct {
	// MaxDepth limits nested u-substitution and by-parts attempts.
	MaxDepth int `yaml:"max_depth" validate:"gte=1,lte=64"`
	// Samples is the number of points used when a candidate
	// antiderivative cannot be verified symbolically.
	Samples int `yaml:"samples" validate:"gte=1,lte=64"`
}

// StoreConfig configures the optional persistent simplification store.
type StoreConfig struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	pc := poly.DefaultConfig()
	return Config{
		Simplify: SimplifyConfig{CacheEnabled: true, CacheSize: 4096, MaxPowBits: 1 << 16},
		Poly: PolyConfig{
			MaxEvalPoints:         pc.MaxEvalPoints,
			MaxCRTIterations:      pc.MaxCRTIterations,
			GroebnerMaxIterations: pc.GroebnerMaxIterations,
			Workers:               runtime.GOMAXPROCS(0),
			Seed:                  pc.Seed,
		},
		Integrate: IntegrateConfig{MaxDepth: 6, Samples: 5},
	}
}

// PolyConfig converts to the kernel's config type.
func (c Config) PolyConfig() poly.Config {
	return poly.Config{
		MaxEvalPoints:         c.Poly.MaxEvalPoints,
		MaxCRTIterations:      c.Poly.MaxCRTIterations,
		GroebnerMaxIterations: c.Poly.GroebnerMaxIterations,
		Workers:               c.Poly.Workers,
		Seed:                  c.Poly.Seed,
	}
}

var validate = validator.New()

// Validate checks the bounds declared in the struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return casterr.New(casterr.KindInvalidArgument, "config", err.Error()).WithCause(err)
	}
	return nil
}

var (
	active   atomic.Pointer[Config]
	defaults = DefaultConfig()
)

func currentConfig() *Config {
	if c := active.Load(); c != nil {
		return c
	}
	return &defaults
}

// CurrentConfig returns a copy of the active configuration.
func CurrentConfig() Config { return *currentConfig() }

// Configure validates and installs c. The simplification cache is resized
// and cleared.
func Configure(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	active.Store(&c)
	resetCache(c.Simplify)
	logger().Info("engine configured",
		"cache_enabled", c.Simplify.CacheEnabled,
		"cache_size", c.Simplify.CacheSize,
		"integrate_max_depth", c.Integrate.MaxDepth)
	return nil
}

// ParseConfig reads YAML over the defaults, so omitted keys keep their
// default values.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}
