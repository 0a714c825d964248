package api

import (
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds the settings the router needs beyond the handler
type RouterConfig struct {
	JWTSecret  string
	CORSOrigin string
}

// NewRouter wires middleware and every route onto a fresh engine
func NewRouter(handler *Handler, rc RouterConfig) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if rc.CORSOrigin != "" {
		corsCfg.AllowOrigins = []string{rc.CORSOrigin}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	// Health and readiness endpoints
	router.GET("/live", func(c *gin.Context) { c.Status(200) })
	router.GET("/ready", handler.Health)
	router.GET("/health", handler.Health)

	v1 := router.Group("/api/v1")
	{
		v1.Use(OptionalAuthMiddleware(rc.JWTSecret))

		// Read endpoints (public)
		v1.GET("/assignments", handler.GetAssignments)
		v1.GET("/assignments/summary", handler.GetAssignmentSummary)
		v1.GET("/assignments/summary/categories", handler.GetStoreCategorySummary)
		v1.GET("/assignments/recent", handler.GetRecentActivity)
		v1.GET("/assignments/:id", handler.GetAssignment)
		v1.GET("/lifecycle", handler.GetLifecycle)

		v1.GET("/stores", handler.GetStores)
		v1.GET("/stores/:id", handler.GetStore)
		v1.GET("/planograms", handler.GetPlanograms)
		v1.GET("/planograms/:id", handler.GetPlanogram)
		v1.GET("/products", handler.GetProducts)

		// Protected admin endpoints
		admin := v1.Group("")
		admin.Use(AuthMiddleware(rc.JWTSecret), AdminMiddleware())
		{
			admin.POST("/assignments", handler.CreateAssignment)
			admin.POST("/assignments/transitions", handler.ApplyTransitions)
			admin.POST("/assignments/export", handler.ExportAssignments)
		}
	}

	// Root endpoint for basic info
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "planogram-service",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	return router
}
