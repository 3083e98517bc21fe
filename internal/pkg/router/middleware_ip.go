package router

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

type ctxKeyClientIP struct{}

// ClientIP returns the address resolved for the request, or "" when none was.
// Recovery endpoints are anonymous, so this is the only caller identity in the logs.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyClientIP{}).(string)
	return v
}

func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := realIP(r); ip.IsValid() {
			r.RemoteAddr = ip.String()
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyClientIP{}, ip.String()))
		}
		next.ServeHTTP(w, r)
	})
}

// realIP prefers proxy headers in the order True-Client-IP, X-Real-IP, then
// the first parsable hop of X-Forwarded-For, and falls back to the peer address.
func realIP(r *http.Request) netip.Addr {
	for _, h := range []string{"True-Client-IP", "X-Real-IP"} {
		if ip, ok := parseIP(r.Header.Get(h)); ok {
			return ip
		}
	}

	for hop := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip, ok := parseIP(hop); ok {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip, _ := parseIP(host)
	return ip
}

func parseIP(v string) (netip.Addr, bool) {
	ip, err := netip.ParseAddr(strings.TrimSpace(v))
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}
