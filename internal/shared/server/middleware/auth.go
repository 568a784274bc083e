package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-service/internal/shared/auth"
	"resume-service/internal/shared/metrics"
	"resume-service/internal/shared/server/respond"
	"resume-service/internal/shared/telemetry"
)

const userIDKey = "userId"

// AuthConfig wires the authorization gate.
type AuthConfig struct {
	Keys     auth.KeyFetcher
	Verifier *auth.Verifier
	// PublicPaths are served without a token (exact path match).
	PublicPaths []string
}

// Auth validates bearer tokens against the identity authority's current public key and binds
// the caller identity to the request. The key is fetched on every protected request.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			metrics.IncAuthDecision(metrics.AuthPublic)
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			deny(c, metrics.AuthMissingToken)
			return
		}

		start := time.Now()
		publicKey, err := cfg.Keys.FetchPublicKey(c.Request.Context())
		metrics.ObservePublicKeyFetch(time.Since(start), err == nil)
		if err != nil {
			metrics.IncAuthDecision(metrics.AuthUpstreamError)
			telemetry.Warn("auth.public_key_unavailable", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      err,
			})
			respond.ErrorWithCause(c, http.StatusInternalServerError, "upstream_unavailable", respond.DetailUnavailable, err)
			return
		}

		claims, err := cfg.Verifier.Verify(strings.TrimSpace(token), publicKey)
		if err != nil || !claims.IsAccess() {
			deny(c, metrics.AuthInvalidToken)
			return
		}

		identity := auth.Identity{ID: claims.ID}
		c.Set(userIDKey, identity.ID)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		metrics.IncAuthDecision(metrics.AuthAllowed)
		c.Next()
	}
}

func deny(c *gin.Context, outcome string) {
	metrics.IncAuthDecision(outcome)
	respond.Error(c, http.StatusUnauthorized, "unauthorized", respond.DetailUnauthorized)
}

// UserIDFromContext returns the caller id bound by Auth.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	if c == nil {
		return 0, false
	}
	if val, ok := c.Get(userIDKey); ok {
		if id, ok := val.(int64); ok {
			return id, true
		}
	}
	if c.Request == nil {
		return 0, false
	}
	identity, ok := auth.IdentityFromContext(c.Request.Context())
	return identity.ID, ok
}
