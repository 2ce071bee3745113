// Package asn resolves autonomous system numbers to the IPv4 prefixes they
// announce, trying an ordered list of routing-data providers.
package asn

import (
	"cmp"
	"context"
	"net/netip"
	"slices"
	"strings"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/platform/resilience"
)

// Resolution is a successful lookup.
type Resolution struct {
	ASN      uint32
	Prefixes []netip.Prefix

	// Provider que respondió
	Provider string

	// Failed lista los proveedores que fallaron antes del que respondió
	Failed []resilience.Failure
}

// Resolver queries providers in order; each is asked at most once per
// Resolve call and a later provider is only asked after the previous one
// failed.
type Resolver struct {
	providers []ports.PrefixProvider
	logger    logx.Logger
}

// NewResolver builds a resolver over providers, in fallback order.
func NewResolver(providers []ports.PrefixProvider, logger logx.Logger) (*Resolver, error) {
	if len(providers) == 0 {
		return nil, domain.ErrNoProviders
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Resolver{
		providers: providers,
		logger:    logger.With("component", "asn-resolver"),
	}, nil
}

// Providers returns provider names in fallback order.
func (r *Resolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Name implements ports.PrefixProvider so a Resolver can stand in for a
// single provider.
func (r *Resolver) Name() string {
	return strings.Join(r.Providers(), ">")
}

// Prefixes implements ports.PrefixProvider over Resolve.
func (r *Resolver) Prefixes(ctx context.Context, asn uint32) ([]netip.Prefix, error) {
	res, err := r.Resolve(ctx, asn)
	if err != nil {
		return nil, err
	}
	return res.Prefixes, nil
}

// Resolve returns the deduplicated prefixes announced by asn. A provider
// answering with zero prefixes is a success. When every provider fails the
// error is an *domain.AsnResolutionError carrying the last failure.
func (r *Resolver) Resolve(ctx context.Context, asn uint32) (Resolution, error) {
	attempts := make([]resilience.Attempt[[]netip.Prefix], len(r.providers))
	for i, p := range r.providers {
		attempts[i] = resilience.Attempt[[]netip.Prefix]{
			Name: p.Name(),
			Run: func(ctx context.Context) ([]netip.Prefix, error) {
				return p.Prefixes(ctx, asn)
			},
		}
	}

	r.logger.Debug("resolving asn", "asn", asn, "providers", len(attempts))

	out, err := resilience.FirstSuccess(ctx, r.logger.With("asn", asn), attempts)
	if err != nil {
		resErr := &domain.AsnResolutionError{ASN: asn, Err: err}
		if last, ok := out.Last(); ok {
			resErr.Provider = last.Name
		}
		return Resolution{}, resErr
	}

	prefixes := Dedupe(out.Value)
	r.logger.Info("asn resolved",
		"asn", asn,
		"provider", out.Winner,
		"prefixes", len(prefixes),
		"raw", len(out.Value),
	)

	return Resolution{
		ASN:      asn,
		Prefixes: prefixes,
		Provider: out.Winner,
		Failed:   out.Failures,
	}, nil
}

// Dedupe masks every prefix, drops exact repeats and sorts the result by
// network address, then by length.
func Dedupe(in []netip.Prefix) []netip.Prefix {
	seen := make(map[netip.Prefix]struct{}, len(in))
	out := make([]netip.Prefix, 0, len(in))
	for _, p := range in {
		p = p.Masked()
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b netip.Prefix) int {
		if c := a.Addr().Compare(b.Addr()); c != 0 {
			return c
		}
		return cmp.Compare(a.Bits(), b.Bits())
	})
	return out
}
