// Package identity derives a best-effort client identifier from request metadata.
package identity

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when neither a forwarding header nor a connection
// address is available.
const Unknown = "Unknown"

// ForwardedForHeader is the proxy header consulted first.
const ForwardedForHeader = "X-Forwarded-For"

// Resolve returns the client identity for the given headers and direct
// connection address. The first X-Forwarded-For entry wins over remoteAddr.
// Resolution never fails and is a pure function of its inputs.
func Resolve(h http.Header, remoteAddr string) string {
	if fwd := h.Get(ForwardedForHeader); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return Unknown
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
		return host
	}
	return remoteAddr
}

// FromRequest resolves the identity of r.
func FromRequest(r *http.Request) string {
	return Resolve(r.Header, r.RemoteAddr)
}
