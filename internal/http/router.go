// internal/http/router.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterConfig struct {
	IsProduction bool
	OTelEnabled  bool
	ServiceName  string
}

// NewRouter wires the health check and the Jira webhook endpoint.
func NewRouter(cfg RouterConfig, webhook *WebhookHandler) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// otel span first so Recovery and Logger see the trace context
	if cfg.OTelEnabled {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(Recovery())
	router.Use(Logger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/webhook", webhook.Handle)
	return router
}
