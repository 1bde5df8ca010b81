package provider

import (
	"fmt"
	"sort"
	"strings"

	"bookmeta/src/internal/httpx"
)

// Policy decides whether a provider takes part in a query.
type Policy interface {
	IsActive(p Provider) bool
}

// Configuration is a Policy that also carries provider parameters.
type Configuration interface {
	Policy
	Parameters(p Provider) map[string]string
}

// AllActive activates every provider and has no parameters.
type AllActive struct{}

func (AllActive) IsActive(Provider) bool                { return true }
func (AllActive) Parameters(Provider) map[string]string { return nil }

// Configurator prepares providers before they are queried.
type Configurator struct {
	Config Configuration
	// Client returns the HTTP client for a provider; nil leaves the
	// provider's own client in place.
	Client func(p Provider) httpx.Doer
}

// Configure applies parameters to Configurable providers and injects the
// HTTP client into HTTPClientAware ones.
func (c Configurator) Configure(p Provider) {
	if c.Config != nil {
		if cp, ok := p.(Configurable); ok {
			if params := c.Config.Parameters(p); len(params) > 0 {
				cp.Configure(params)
			}
		}
	}
	if c.Client != nil {
		if ha, ok := p.(HTTPClientAware); ok {
			if doer := c.Client(p); doer != nil {
				ha.SetHTTPClient(doer)
			}
		}
	}
}

// MissingParameterError reports required provider parameters that are unset.
type MissingParameterError struct {
	Provider   string
	Parameters []string
	Details    string
}

func (e *MissingParameterError) Error() string {
	msg := fmt.Sprintf("provider %s has required parameters; missing: %s", e.Provider, strings.Join(e.Parameters, ", "))
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// RequireParameters returns a *MissingParameterError naming every entry of
// params whose value is blank, or nil when all are set.
func RequireParameters(p Provider, params map[string]string, details string) error {
	var missing []string
	for name, v := range params {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &MissingParameterError{Provider: p.Code(), Parameters: missing, Details: details}
}
