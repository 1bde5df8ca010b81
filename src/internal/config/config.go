// Package config loads the YAML file that decides which sources take part
// in a query, their parameters, and their request budgets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/provider"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "BOOKMETA_CONFIG"

// DefaultTimeout bounds each source when the file does not say otherwise.
const DefaultTimeout = 15 * time.Second

var _ provider.Configuration = (*File)(nil)

// File is the on-disk configuration.
type File struct {
	DefaultActive *bool                     `yaml:"default_active,omitempty"`
	Timeout       Duration                  `yaml:"timeout,omitempty"`
	Parallel      int                       `yaml:"parallel,omitempty"`
	Providers     map[string]ProviderConfig `yaml:"providers,omitempty"`
}

// ProviderConfig is the per-source section, keyed by provider code.
type ProviderConfig struct {
	Active     *bool             `yaml:"active,omitempty"`
	Rate       float64           `yaml:"rate,omitempty"`
	Burst      int               `yaml:"burst,omitempty"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
}

// Duration accepts either a Go duration string ("15s", "1m30s") or a bare
// number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*d = 0
		return nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, s)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return time.Duration(d).String(), nil }

// Default is the configuration used when no file is given: every source
// active, no parameters, a 15s per-source timeout, unbounded parallelism.
func Default() *File {
	return &File{Timeout: Duration(DefaultTimeout)}
}

// Load reads path, or returns Default when path is empty.
func Load(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a YAML document, expands ${VAR} references in parameter
// values, and validates the result.
func Parse(b []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, err
	}
	for code, pc := range f.Providers {
		for k, v := range pc.Parameters {
			pc.Parameters[k] = os.ExpandEnv(v)
		}
		f.Providers[code] = pc
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate rejects negative budgets.
func (f *File) Validate() error {
	var errs []error
	if f.Parallel < 0 {
		errs = append(errs, fmt.Errorf("parallel must be >= 0, got %d", f.Parallel))
	}
	if f.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", time.Duration(f.Timeout)))
	}
	for code, pc := range f.Providers {
		if pc.Rate < 0 {
			errs = append(errs, fmt.Errorf("providers.%s.rate must be >= 0", code))
		}
		if pc.Burst < 0 {
			errs = append(errs, fmt.Errorf("providers.%s.burst must be >= 0", code))
		}
	}
	return errors.Join(errs...)
}

// IsActive uses the provider's own flag, then default_active, then true.
func (f *File) IsActive(p provider.Provider) bool {
	if pc, ok := f.Providers[p.Code()]; ok && pc.Active != nil {
		return *pc.Active
	}
	if f.DefaultActive != nil {
		return *f.DefaultActive
	}
	return true
}

func (f *File) Parameters(p provider.Provider) map[string]string {
	return f.Providers[p.Code()].Parameters
}

// Limiter returns the request limiter for code, or nil when no rate is set.
func (f *File) Limiter(code string) *rate.Limiter {
	pc, ok := f.Providers[code]
	if !ok || pc.Rate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(pc.Rate), max(pc.Burst, 1))
}

// Configurator returns a provider.Configurator that applies this file's
// parameters and hands each HTTP-aware provider base, rate limited when
// the provider has a rate. A nil base leaves the providers' own clients.
func (f *File) Configurator(base httpx.Doer) provider.Configurator {
	c := provider.Configurator{Config: f}
	if base != nil {
		c.Client = func(p provider.Provider) httpx.Doer {
			return httpx.Limit(base, f.Limiter(p.Code()))
		}
	}
	return c
}
