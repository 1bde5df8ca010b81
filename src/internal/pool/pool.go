// Package pool runs one query against many sources and merges their answers.
package pool

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bookmeta/src/internal/provider"
	"bookmeta/src/internal/record"
)

// Code is the pool's own provider code; no real source uses it.
const Code = "__pool__"

// Pool aggregates a fixed, ordered list of providers. It satisfies the
// provider contract itself, so pools can be nested.
type Pool struct {
	providers []provider.Provider
	policy    provider.Policy
	parallel  int
	timeout   time.Duration
	logger    *slog.Logger
}

// Option customises a Pool.
type Option func(*Pool)

// WithParallel bounds how many sources are queried at once; n <= 0 means
// one goroutine per active source, 1 means strictly sequential.
func WithParallel(n int) Option { return func(p *Pool) { p.parallel = n } }

// WithTimeout bounds each source's query; d <= 0 disables the bound.
func WithTimeout(d time.Duration) Option { return func(p *Pool) { p.timeout = d } }

// WithLogger sets the logger used for per-source reporting.
func WithLogger(l *slog.Logger) Option { return func(p *Pool) { p.logger = l } }

// New returns a pool over providers, in that order. A nil policy activates
// every provider.
func New(providers []provider.Provider, policy provider.Policy, opts ...Option) *Pool {
	if policy == nil {
		policy = provider.AllActive{}
	}
	p := &Pool{
		providers: slices.Clone(providers),
		policy:    policy,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pool) Code() string  { return Code }
func (p *Pool) Label() string { return Code }

// Active yields the providers the policy currently enables, in configured order.
func (p *Pool) Active() iter.Seq[provider.Provider] {
	return func(yield func(provider.Provider) bool) {
		for _, src := range p.providers {
			if !p.policy.IsActive(src) {
				continue
			}
			if !yield(src) {
				return
			}
		}
	}
}

// SearchableFields is the union of the active providers' fields, in
// first-seen order.
func (p *Pool) SearchableFields() []string {
	var out []string
	for src := range p.Active() {
		for _, f := range src.SearchableFields() {
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	return out
}

// Search runs a criteria query on every active provider. Source failures
// are logged and reported through Collect; here they only shrink the
// result. The error is non-nil only when ctx itself is done.
func (p *Pool) Search(ctx context.Context, criteria map[string]string) ([]record.Record, error) {
	rep := p.Collect(ctx, Query{Criteria: criteria})
	return rep.Records, ctx.Err()
}

// SearchIdentifier runs an identifier query on every active provider.
func (p *Pool) SearchIdentifier(ctx context.Context, id string) ([]record.Record, error) {
	rep := p.Collect(ctx, Query{Identifier: id})
	return rep.Records, ctx.Err()
}

// Collect runs q on every active provider, concurrently up to the parallel
// bound, and merges the results in configured order. Each provider's list
// is deduplicated on its own; records repeated across providers are kept.
func (p *Pool) Collect(ctx context.Context, q Query) Report {
	active := slices.Collect(p.Active())
	attempts := make([]Attempt, len(active))
	results := make([][]record.Record, len(active))
	log := p.logger.With(slog.String("query_id", uuid.NewString()), slog.String("query", q.String()))

	g := new(errgroup.Group)
	if p.parallel > 0 {
		g.SetLimit(p.parallel)
	}
	for i, src := range active {
		g.Go(func() error {
			start := time.Now()
			recs, err := p.run(ctx, src, q)
			attempts[i] = Attempt{
				Provider: src.Code(),
				Label:    src.Label(),
				Duration: time.Since(start),
			}
			if err != nil {
				attempts[i].Err = &SourceError{Provider: src.Code(), Err: err}
				log.Warn("source query failed",
					slog.String("source", src.Code()),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = record.Dedupe(recs)
			attempts[i].Count = len(results[i])
			log.Debug("source query done",
				slog.String("source", src.Code()),
				slog.Int("records", attempts[i].Count),
				slog.Duration("took", attempts[i].Duration),
			)
			return nil
		})
	}
	_ = g.Wait() // failures are kept per attempt

	var merged []record.Record
	for _, rs := range results {
		merged = append(merged, rs...)
	}
	return Report{Records: merged, Attempts: attempts}
}

// run queries one source under the per-source timeout. A source that
// ignores cancellation is abandoned once the deadline passes; a panicking
// source is reported as failed.
func (p *Pool) run(ctx context.Context, src provider.Provider, q Query) ([]record.Record, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	type outcome struct {
		recs []record.Record
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		var out outcome
		defer func() {
			if r := recover(); r != nil {
				out = outcome{err: fmt.Errorf("panic: %v", r)}
			}
			done <- out
		}()
		if q.Identifier != "" {
			out.recs, out.err = provider.SearchIdentifier(ctx, src, q.Identifier)
		} else {
			out.recs, out.err = provider.Search(ctx, src, q.Criteria)
		}
	}()
	select {
	case out := <-done:
		if out.err == nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return out.recs, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SourceError is a failure isolated to one source.
type SourceError struct {
	Provider string
	Err      error
}

func (e *SourceError) Error() string { return e.Provider + ": " + e.Err.Error() }
func (e *SourceError) Unwrap() error { return e.Err }

// Err joins every source failure of the report, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, a := range r.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errors.Join(errs...)
}
