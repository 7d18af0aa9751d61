package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// proxyList holds the networks whose forwarding headers are believed.
type proxyList struct {
	nets []*net.IPNet
}

// TrustedRealIP rewrites r.RemoteAddr from X-Real-IP or X-Forwarded-For when
// the connection originates inside one of the trusted CIDRs. The resolved
// address feeds the per-IP rate limiter and the request log, so believing a
// forwarded header from an arbitrary client would let an uploader spoof their
// way past the ingest limits. With no trusted proxies configured, headers are
// ignored entirely.
//
// Entries may be CIDRs or bare IPs ("10.0.0.5" is read as a /32).
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	proxies := parseProxyList(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer := peerIP(r.RemoteAddr)
			if proxies.contains(peer) {
				if forwarded := forwardedClientIP(r); forwarded != "" {
					r.RemoteAddr = forwarded
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseProxyList resolves the configured entries once, at server startup.
// Unparsable entries are logged and skipped rather than failing the server:
// a typo in one CIDR should not take ingestion down.
func parseProxyList(entries []string) proxyList {
	var p proxyList
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(entry); err == nil {
			p.nets = append(p.nets, network)
			continue
		}

		if ip := net.ParseIP(entry); ip != nil {
			bits := 128
			if ip.To4() != nil {
				bits = 32
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		slog.Warn("ignoring unparsable trusted proxy entry", "entry", entry)
	}
	return p
}

func (p proxyList) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, network := range p.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// forwardedClientIP extracts a validated client IP from the proxy headers.
// X-Real-IP wins; otherwise the first hop of X-Forwarded-For is the original
// client. Returns "" when neither header carries a parseable address.
func forwardedClientIP(r *http.Request) string {
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		if ip := net.ParseIP(rip); ip != nil {
			return ip.String()
		}
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	return ""
}

// peerIP parses the connection source, tolerating both host:port and bare
// address forms.
func peerIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}
