// Package metadata resolves which address a request really came from and
// stashes it, with the caller's User-Agent, on the request context. Oracle
// nodes usually hit veripay directly; deployments behind a load balancer
// list its CIDR as a trusted proxy so forwarding headers are honored only
// from there.
package metadata

import (
	"net/http"
	"net/netip"
	"strings"

	"veripay/pkg/requestcontext"
)

// MaxXFFHeaderLength bounds forwarding headers before they are parsed. A
// header past the cap is treated as absent.
const MaxXFFHeaderLength = 500

// Config controls which peers may speak for the client.
type Config struct {
	// TrustedProxies lists the prefixes allowed to set X-Forwarded-For
	// and X-Real-IP. Empty means forwarding headers are never trusted.
	TrustedProxies []netip.Prefix
}

// DefaultConfig trusts no proxies.
func DefaultConfig() *Config {
	return &Config{}
}

// Middleware extracts client metadata into the request context.
type Middleware struct {
	config *Config
}

// NewMiddleware builds the middleware; a nil config falls back to
// DefaultConfig.
func NewMiddleware(cfg *Config) *Middleware {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Middleware{config: cfg}
}

// Handler resolves the client IP and User-Agent and passes them down the
// chain on the context. The rate limiter keys its buckets on this IP, so
// the trust rules here decide whose budget a request consumes.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(),
			m.clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP picks the address to attribute the request to. The connection
// peer wins unless it is a trusted proxy, in which case the first hop of
// X-Forwarded-For (or X-Real-IP when no chain is present) names the
// original client. Malformed or oversized headers fall back to the peer.
func (m *Middleware) clientIP(r *http.Request) string {
	peer := parseRemoteAddr(r.RemoteAddr)
	if peer == "" {
		return "unknown"
	}
	if !m.isTrustedProxy(peer) {
		return peer
	}

	header := r.Header.Get("X-Forwarded-For")
	if header == "" {
		header = r.Header.Get("X-Real-IP")
	}
	if header == "" || len(header) > MaxXFFHeaderLength {
		return peer
	}

	first := header
	if before, _, ok := strings.Cut(header, ","); ok {
		first = before
	}
	first = strings.TrimSpace(first)

	if _, err := netip.ParseAddr(first); err != nil {
		return peer
	}
	return first
}

func (m *Middleware) isTrustedProxy(ip string) bool {
	if len(m.config.TrustedProxies) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	for _, prefix := range m.config.TrustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseTrustedProxies turns configured CIDR strings into prefixes. Entries
// that do not parse are skipped; a bare address becomes a host prefix.
func ParseTrustedProxies(cidrs []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		if prefix, err := netip.ParsePrefix(c); err == nil {
			prefixes = append(prefixes, prefix)
			continue
		}
		if addr, err := netip.ParseAddr(c); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

// parseRemoteAddr strips the port from a connection address. Anything that
// is not an address, with or without port, reads as empty.
func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	if ap, err := netip.ParseAddrPort(remoteAddr); err == nil {
		return ap.Addr().String()
	}
	if addr, err := netip.ParseAddr(remoteAddr); err == nil {
		return addr.String()
	}
	return ""
}
