package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-service/internal/improvements"
	"resume-service/internal/resumes"
	"resume-service/internal/services/health"
	"resume-service/internal/shared/config"
	"resume-service/internal/shared/metrics"
	"resume-service/internal/shared/server/middleware"
	"resume-service/internal/shared/server/respond"
)

const (
	apiPrefix   = "/api/v1"
	openAPIPath = apiPrefix + "/resumes/openapi.json"
	healthPath  = apiPrefix + "/health"

	rateGroupImprove = "IMPROVE"
)

//go:embed openapi.json
var openAPIDocument []byte

// RouterDeps carries everything NewRouter wires.
type RouterDeps struct {
	Config             config.Config
	Auth               middleware.AuthConfig
	Limiter            middleware.Limiter
	Health             *health.Service
	ResumeHandler      *resumes.Handler
	ImprovementHandler *improvements.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.TrustedHosts(deps.Config.AllowedHosts),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	authCfg := deps.Auth
	authCfg.PublicPaths = append(append([]string(nil), authCfg.PublicPaths...), openAPIPath, healthPath)

	api := r.Group(apiPrefix)
	api.Use(
		middleware.Auth(authCfg),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateRules(deps.Config),
			GroupFor: rateGroup,
			Limiter:  deps.Limiter,
		}),
	)

	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/resumes/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPIDocument)
	})

	// Non-preflight OPTIONS requests still pass the gate before being refused.
	api.OPTIONS("/*path", func(c *gin.Context) {
		respond.Error(c, http.StatusMethodNotAllowed, "method_not_allowed", respond.DetailNotAllowed)
	})

	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.ImprovementHandler != nil {
		deps.ImprovementHandler.RegisterRoutes(api)
		deps.ImprovementHandler.RegisterHistoryRoutes(api)
	}

	return r
}

// rateRules derives the per-group buckets. Improve calls hit the external provider, so they
// get a fifth of the default budget.
func rateRules(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil
	}
	improveBurst := cfg.RateLimitBurst / 5
	if improveBurst < 1 {
		improveBurst = 1
	}
	return map[string]middleware.RateLimitRule{
		"DEFAULT":        {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		rateGroupImprove: {Rate: cfg.RateLimitRPS / 5, Burst: improveBurst},
	}
}

func rateGroup(c *gin.Context) string {
	if c.FullPath() == apiPrefix+"/resumes/:id/improve" {
		return rateGroupImprove
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
