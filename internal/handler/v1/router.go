package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abernathy-clinic/medilabo-ui/config"
	"github.com/abernathy-clinic/medilabo-ui/pkg/metrics"
)

// NewRouter wires middleware and routes. The v1 group carries the four
// patient use cases; health and metrics sit outside it.
func NewRouter(cfg *config.Config, patients *PatientHandler, log *zap.Logger, collector *metrics.Collector) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(Metrics(collector))
	r.Use(CORS(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	patients.Register(api)

	return r
}
