package router

import (
	"github.com/gin-gonic/gin"

	"rfqforge/internal/handler"
	"rfqforge/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	rfqH *handler.RFQHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	rfq := v1.Group("/rfq")
	rfq.POST("/parse", rfqH.Parse)
	rfq.POST("/upload", rfqH.Upload)
	rfq.GET("/drafts", rfqH.ListDrafts)
	rfq.GET("/drafts/export", rfqH.ExportDrafts)
	rfq.GET("/drafts/:id", rfqH.GetDraft)
	rfq.GET("/drafts/:id/source", rfqH.GetDraftSource)
	rfq.POST("/drafts/:id/review", rfqH.ReviewDraft)
	rfq.DELETE("/drafts/:id", rfqH.DeleteDraft)

	return r
}
