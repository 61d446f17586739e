package handler

import (
	"genesis-settlement/internal/adapter/http/middleware"
	"genesis-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AgentSvc       ports.AgentService
	SettlementSvc  ports.SettlementService
	EvidenceSvc    ports.EvidenceService // nil = evidence endpoints disabled
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check, pings the wired stores
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	agentHandler := NewAgentHandler(deps.AgentSvc)
	v1.POST("/agents/register", agentHandler.Register)
	v1.POST("/auth/token", agentHandler.IssueToken)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	settlementHandler := NewSettlementHandler(deps.SettlementSvc)

	settlements := v1.Group("/settlements", jwtAuth)
	{
		settlements.POST("", settlementHandler.Execute)
		settlements.GET("", settlementHandler.History)
		settlements.GET("/:payment_id", settlementHandler.GetReceipt)
		settlements.GET("/:payment_id/evidence", settlementHandler.GetEvidencePackage)
	}

	v1.GET("/summary", jwtAuth, settlementHandler.Summary)

	if deps.EvidenceSvc != nil {
		evidenceHandler := NewEvidenceHandler(deps.EvidenceSvc)
		evidence := v1.Group("/evidence", jwtAuth)
		{
			evidence.POST("", evidenceHandler.Store)
			evidence.GET("/:cid", evidenceHandler.Retrieve)
		}
	}

	return r
}
