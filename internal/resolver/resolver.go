// Package resolver rewrites configured hostnames into literal IP addresses
// so that cluster membership comparisons stay address-stable.
package resolver

import (
	"errors"
	"fmt"
	"net"

	"github.com/eugenenazirov/clusterconf/internal/config"
)

// ResolutionError reports a failed hostname lookup. Lookups are never retried
// here; retry policy belongs to the caller.
type ResolutionError struct {
	Host string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve host %q: %v", e.Host, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// LookupFunc resolves a hostname to one or more IP addresses.
type LookupFunc func(host string) ([]net.IP, error)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookup overrides the name resolution function (primarily for tests).
func WithLookup(lookup LookupFunc) Option {
	return func(r *Resolver) {
		r.lookup = lookup
	}
}

// Resolver resolves hostnames through blocking name resolution. Resolve has
// no internal timeout or cancellation; callers needing bounded latency must
// wrap it.
type Resolver struct {
	lookup LookupFunc
}

// New creates a Resolver backed by the system name resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{lookup: net.LookupIP}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsLiteralAddress reports whether s is already a literal IPv4 or IPv6
// address.
func IsLiteralAddress(s string) bool {
	return net.ParseIP(s) != nil
}

// Resolve maps a hostname to a literal IP, taking the first address name
// resolution returns.
func (r *Resolver) Resolve(host string) (string, error) {
	ips, err := r.lookup(host)
	if err != nil {
		return "", &ResolutionError{Host: host, Err: err}
	}
	if len(ips) == 0 {
		return "", &ResolutionError{Host: host, Err: errors.New("no addresses returned")}
	}
	return ips[0].String(), nil
}

// NormalizeAddresses rewrites the local address and every seed node host to
// literal IPs, preserving port fields. Already-literal entries pass through
// unchanged, so the pass is idempotent. Results are buffered and committed
// only after every entry resolved: on failure cfg is exactly as it was before
// the call.
func (r *Resolver) NormalizeAddresses(cfg *config.ClusterConfig) error {
	localIP := cfg.LocalIP
	if !IsLiteralAddress(localIP) {
		resolved, err := r.Resolve(localIP)
		if err != nil {
			return err
		}
		localIP = resolved
	}

	seeds := cfg.SeedNodeURLs()
	normalized := make([]string, 0, len(seeds))
	for _, entry := range seeds {
		url, err := config.ParseSeedURL(entry)
		if err != nil {
			return err
		}
		if IsLiteralAddress(url.Host) {
			normalized = append(normalized, entry)
			continue
		}
		resolved, err := r.Resolve(url.Host)
		if err != nil {
			return err
		}
		url.Host = resolved
		normalized = append(normalized, url.String())
	}

	cfg.LocalIP = localIP
	cfg.SetSeedNodeURLs(normalized)
	return nil
}
