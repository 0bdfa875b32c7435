// Package httpapi wires the Gin engine: global middleware, service
// construction and the public routes.
//
// Middleware order:
//
//	otelgin → RequestID → RedactingLogger → Recovery → body limit → gzip →
//	Metrics → CORS → SecurityHeaders → Auth
//
// The question bank routes add IdempotencyValidator and the token-bucket
// limiter. The chat route is metered by the chat service's own admission
// window instead.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/academix/academic-api/internal/cache"
	"github.com/academix/academic-api/internal/config"
	"github.com/academix/academic-api/internal/docs"
	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/http/handlers"
	"github.com/academix/academic-api/internal/http/middleware"
	"github.com/academix/academic-api/internal/provider"
	"github.com/academix/academic-api/internal/ratelimit"
	"github.com/academix/academic-api/internal/repo"
	"github.com/academix/academic-api/internal/services"
)

// Deps are the collaborators built by main from configuration.
type Deps struct {
	DB        *gorm.DB
	Admission ratelimit.Admission
	Cache     cache.Store
	Provider  provider.Provider
}

// sessionRepoShim adapts repo.CreateSession to services.SessionRepo.
type sessionRepoShim struct{}

func (sessionRepoShim) CreateSession(ctx context.Context, db *gorm.DB, s *domain.ChatSession) error {
	return repo.CreateSession(ctx, db, s)
}

// RegisterRoutes installs middleware and routes on r.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Everything below requires identity resolution.
	auth := middleware.Auth(middleware.AuthOptions{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Required: cfg.Auth.Required,
	})

	chatSvc := &services.ChatService{
		DB:         deps.DB,
		Repo:       sessionRepoShim{},
		Admission:  deps.Admission,
		Cache:      deps.Cache,
		Provider:   deps.Provider,
		CacheTTL:   cfg.Chat.CacheTTL,
		SessionTTL: cfg.Chat.SessionTTL,
	}
	questionSvc := services.NewQuestionService(deps.DB)
	questionSvc.MinConfidence = cfg.Questions.MinConfidence
	if cfg.Questions.MaxChars > 0 {
		questionSvc.MaxChars = cfg.Questions.MaxChars
	}

	idem := repo.IdempotencyStore{DB: deps.DB}
	h := handlers.New(chatSvc, questionSvc, idem)
	if cfg.IdempotencyTTL > 0 {
		h.IdemTTL = cfg.IdempotencyTTL
	}

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(auth)
	api.POST("/chat/ask", h.Ask)

	edge := middleware.NewTokenBucket(cfg.RateRPS, cfg.RateBurst)
	exams := r.Group("/exams-chat", auth)
	exams.POST("/publish",
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope:  handlers.ScopePublish,
		}, idem.Exists),
		edge.Handler(),
		h.PublishQuestion,
	)
	exams.GET("/questions", edge.Handler(), h.ListQuestions)
	exams.POST("/questions/:id/promote", edge.Handler(), h.PromoteQuestion)
}

func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache", middleware.HeaderIdempotencyReplayed, "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// ACAO: * also for requests without an Origin header.
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
