package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rohankapur/finetune-studio/internal/api/handlers"
	"github.com/rohankapur/finetune-studio/internal/api/middleware"
	"github.com/rohankapur/finetune-studio/internal/audit"
	"github.com/rohankapur/finetune-studio/internal/auth"
	"github.com/rohankapur/finetune-studio/internal/config"
	"github.com/rohankapur/finetune-studio/internal/credential"
	"github.com/rohankapur/finetune-studio/internal/project"
	"github.com/rohankapur/finetune-studio/internal/provider"
	"github.com/rohankapur/finetune-studio/internal/queue"
	"github.com/rohankapur/finetune-studio/internal/training"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	creds := credential.NewStore(rt.db)
	gateway := provider.NewGateway(creds, rt.cfg.Providers)
	auditSvc := audit.NewService(rt.db)
	projectSvc := project.NewService(rt.db)
	trainingSvc := training.NewService(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		// Generation routes
		genH := handlers.NewGenerateHandler(gateway, auditSvc)
		r.Post("/generate", genH.Generate)
		r.Post("/generate/stream", genH.GenerateStream)
		r.Get("/models", genH.Models)

		// Credential routes
		keysH := handlers.NewKeysHandler(creds)
		r.Route("/keys", func(r chi.Router) {
			r.Get("/", keysH.List)
			r.Put("/{provider}", keysH.Save)
			r.Get("/{provider}", keysH.Status)
			r.Delete("/{provider}", keysH.Delete)
		})

		// Project routes
		projH := handlers.NewProjectHandler(projectSvc)
		trainH := handlers.NewTrainingHandler(trainingSvc, projectSvc, queueClient)
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projH.Create)
			r.Get("/", projH.List)
			r.Get("/{id}", projH.Get)
			r.Delete("/{id}", projH.Delete)
			r.Post("/{id}/sessions", trainH.CreateSession)
		})

		// Training session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/{id}", trainH.GetSession)
			r.Get("/{id}/stats", trainH.Stats)
			r.Get("/{id}/export", trainH.Export)
			r.Post("/{id}/export/async", trainH.ExportAsync)
			r.Post("/{id}/pairs", trainH.AddPair)
			r.Get("/{id}/pairs", trainH.ListPairs)
			r.Delete("/{id}/pairs", trainH.ClearSession)
		})
		r.Route("/pairs", func(r chi.Router) {
			r.Post("/validate", trainH.ValidatePair)
			r.Patch("/{pairID}/score", trainH.RatePair)
			r.Delete("/{pairID}", trainH.DeletePair)
		})

		// Document routes
		docH := handlers.NewDocumentHandler()
		r.Route("/documents", func(r chi.Router) {
			r.Post("/extract", docH.Extract)
			r.Get("/supported", docH.SupportedTypes)
		})

		// Usage routes
		usageH := handlers.NewUsageHandler(auditSvc)
		r.Get("/usage", usageH.Summary)
		r.Get("/usage/logs", usageH.Recent)
	})

	return r
}
