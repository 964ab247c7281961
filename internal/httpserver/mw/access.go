package mw

import (
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// AllowOnlyCIDRS rejects callers outside the allowed IPs/CIDRs with 403.
// An empty list disables the check.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	set := utils.NewAddrSet(allowed)
	if set.Len() == 0 {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !set.Contains(ip) {
				log.Debug("client ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost only serves requests whose Host header matches one of the
// patterns. Patterns are globs, so "*.home.lan" covers every subdomain.
// An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		p := strings.ToLower(h)
		if !doublestar.ValidatePattern(p) {
			log.Warn("ignoring invalid host pattern", logger.String("pattern", h))
			continue
		}
		patterns = append(patterns, p)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hostAllowed(strings.ToLower(r.Host), patterns) {
				next.ServeHTTP(w, r)
				return
			}
			log.Debug("host rejected", logger.String("host", r.Host))
			w.WriteHeader(http.StatusForbidden)
		})
	}
}

func hostAllowed(host string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, host); ok {
			return true
		}
	}
	return false
}
