package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/programme-lv/judger/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP API. m may be nil, in which case request metrics
// are not recorded; /metrics is served from gatherer when it is non-nil.
func NewRouter(svc JobService, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(logger, m))

	h := &Handler{svc: svc, logger: logger}
	r.POST("/jobs", h.PostJob)
	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/:id", h.GetJob)
	r.PUT("/jobs/:id", h.PutJob)
	r.DELETE("/jobs/:id", h.DeleteJob)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return r
}
