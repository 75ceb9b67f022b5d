// Package router provides PaperQA service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/paperqa-io/paperqa/api/swagger" // swagger docs
	"github.com/paperqa-io/paperqa/internal/paperqa/handler"
)

// Register registers the PaperQA service routes.
func Register(engine *gin.Engine, paperHandler *handler.PaperHandler, healthHandler *handler.HealthHandler) {
	logger.Info("Registering PaperQA routes...")

	engine.POST("/papers", paperHandler.Upload)
	engine.POST("/query", paperHandler.Query)
	engine.GET("/stats", paperHandler.Stats)

	engine.GET("/healthz", healthHandler.Healthz)
	engine.GET("/readyz", healthHandler.Readyz)

	// Swagger UI: http://localhost:8080/swagger/index.html
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("HTTP routes registered")
}
