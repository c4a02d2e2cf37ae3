package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"medtriage/internal/assessment"
	"medtriage/internal/auth"
	"medtriage/internal/cache"
	"medtriage/internal/config"
	"medtriage/internal/db"
	"medtriage/internal/engine"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client, svc *engine.Service) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/medtriage" or any custom path, always starts with '/'

	store := assessment.NewStore(db.DB)
	scoreCache := cache.NewScoreCache(rdb, time.Duration(cfg.Cache.ScoreTTLSeconds)*time.Second)

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// Auth
		group.POST("/auth/token", TokenHandler(cfg, rdb))

		// Knowledge base catalog
		group.GET("/symptoms", auth.AuthMiddleware(cfg, rdb), ListSymptomsHandler(svc))

		// Risk scoring
		group.POST("/risk/score", auth.AuthMiddleware(cfg, rdb), ScoreHandler(svc, scoreCache))
		group.POST("/risk/suggestions", auth.AuthMiddleware(cfg, rdb), SuggestionsHandler(svc))

		// Triage
		group.POST("/triage/assess", auth.AuthMiddleware(cfg, rdb), AssessHandler(svc, store))
		group.GET("/triage/assessments/:id", auth.AuthMiddleware(cfg, rdb), GetAssessmentHandler(store))
		group.GET("/triage/sessions/:sessionId/latest", auth.AuthMiddleware(cfg, rdb), LatestAssessmentHandler(store))

		// Temporal patterns
		group.POST("/patterns/analyze", auth.AuthMiddleware(cfg, rdb), AnalyzePatternsHandler(svc))

		// Preventive care
		group.POST("/preventive/recommendations", auth.AuthMiddleware(cfg, rdb), PreventiveHandler(svc))
	}
	return r
}
