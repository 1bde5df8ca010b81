package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookmeta/src/internal/catalog"
	"bookmeta/src/internal/config"
	"bookmeta/src/internal/httpx"
	"bookmeta/src/internal/pool"
)

// indirections for testability
var (
	providers             = catalog.All
	httpClient httpx.Doer = &http.Client{Timeout: 30 * time.Second}
)

type options struct {
	configPath string
	format     string
	timeout    time.Duration
	parallel   int
	logLevel   string
}

var opts options

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", os.Getenv(config.EnvPath), "YAML config file (default $"+config.EnvPath+")")
	f.StringVar(&o.format, "format", "text", "output format: text, yaml or json")
	f.DurationVar(&o.timeout, "timeout", config.DefaultTimeout, "per-source timeout, overrides the config file")
	f.IntVar(&o.parallel, "parallel", 0, "sources queried at once (0 = all), overrides the config file")
	f.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func (o *options) logger(w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", o.logLevel)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// setup loads the configuration, prepares every source and returns the
// pool over them. Explicit --timeout/--parallel flags win over the file.
func (o *options) setup(cmd *cobra.Command) (*pool.Pool, *config.File, error) {
	o.format = strings.ToLower(o.format)
	switch o.format {
	case "text", "yaml", "json":
	default:
		return nil, nil, fmt.Errorf("unknown --format %q", o.format)
	}
	log, err := o.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	timeout := time.Duration(cfg.Timeout)
	if cmd.Flags().Changed("timeout") {
		timeout = o.timeout
	}
	parallel := cfg.Parallel
	if cmd.Flags().Changed("parallel") {
		parallel = o.parallel
	}
	ps := providers()
	configure := cfg.Configurator(httpClient)
	for _, p := range ps {
		configure.Configure(p)
	}
	return pool.New(ps, cfg, pool.WithTimeout(timeout), pool.WithParallel(parallel), pool.WithLogger(log)), cfg, nil
}
