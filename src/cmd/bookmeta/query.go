package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"bookmeta/src/internal/pool"
)

var errAllFailed = errors.New("every active source failed")

func newISBNCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "isbn <isbn>",
		Short: "Look a book up by ISBN/EAN on every active source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("isbn must not be empty")
			}
			return runQuery(cmd, pool.Query{Identifier: id})
		},
	}
}

func newSearchCmd() *cobra.Command {
	var criteria []string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search every active source with one or more field=value criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseCriteria(criteria)
			if err != nil {
				return err
			}
			return runQuery(cmd, pool.Query{Criteria: q})
		},
	}
	cmd.Flags().StringArrayVar(&criteria, "criteria", nil, "field=value (repeatable), e.g. --criteria title=Dune")
	return cmd
}

// parseCriteria turns repeated field=value flags into a map; a field given
// twice keeps its last value.
func parseCriteria(items []string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one --criteria is required")
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		k, v, ok := strings.Cut(it, "=")
		k, v = strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid --criteria %q, want field=value", it)
		}
		out[k] = v
	}
	return out, nil
}

func runQuery(cmd *cobra.Command, q pool.Query) error {
	p, _, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	rep := p.Collect(cmd.Context(), q)
	trace := cmd.OutOrStdout()
	if opts.format != "text" {
		trace = cmd.ErrOrStderr()
	}
	for _, a := range rep.Attempts {
		fmt.Fprintf(trace, "tried: %s\n", describe(a))
	}
	if err := render(cmd.OutOrStdout(), opts.format, rep.Records); err != nil {
		return err
	}
	if rep.Failed() {
		return errAllFailed
	}
	return nil
}

func describe(a pool.Attempt) string {
	switch {
	case a.Err != nil:
		var se *pool.SourceError
		msg := a.Err.Error()
		if errors.As(a.Err, &se) {
			msg = se.Err.Error()
		}
		return fmt.Sprintf("%s: failed (%s)", a.Provider, msg)
	case a.Count == 0:
		return a.Provider + ": not found"
	default:
		return fmt.Sprintf("%s: found (%d)", a.Provider, a.Count)
	}
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the sources, whether they are active, and the fields they search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, src := range providers() {
				state := "inactive"
				if cfg.IsActive(src) {
					state = "active"
				}
				fields := append([]string(nil), src.SearchableFields()...)
				sort.Strings(fields)
				fmt.Fprintf(out, "%-14s %-8s %-26s %s\n", src.Code(), state, src.Label(), strings.Join(fields, ","))
			}
			fmt.Fprintf(out, "%-14s %-8s %-26s %s\n", pool.Code, "", "all active sources", strings.Join(p.SearchableFields(), ","))
			return nil
		},
	}
}
