package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-service/internal/shared/server/respond"
)

// TrustedHosts rejects requests whose Host header is not allowed. Entries may be exact hosts,
// "*.example.com" suffix patterns or "*" for any host.
func TrustedHosts(allowed []string) gin.HandlerFunc {
	exact := make(map[string]struct{})
	var suffixes []string
	for _, h := range allowed {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case h == "":
		case h == "*":
			return func(c *gin.Context) { c.Next() }
		case strings.HasPrefix(h, "*."):
			suffixes = append(suffixes, h[1:])
		default:
			exact[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		host := strings.ToLower(hostOnly(c.Request.Host))
		if _, ok := exact[host]; ok {
			c.Next()
			return
		}
		for _, s := range suffixes {
			if strings.HasSuffix(host, s) {
				c.Next()
				return
			}
		}
		respond.Error(c, http.StatusBadRequest, "invalid_host", "Invalid host header")
	}
}

func hostOnly(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}
