package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/config"
	"qrmenu/internal/metrics"
	"qrmenu/web"
)

// NewRouter builds the Gin engine: middleware chain, embedded HTML
// templates, static media serving, and the observability endpoints.
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.Recovery(),
	)

	router.SetHTMLTemplate(web.Templates())
	router.Static("/media", cfg.Media.Dir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
