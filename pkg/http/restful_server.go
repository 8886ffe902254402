package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/dispenser"
	"github.com/mzrn1122/SMD/pkg/metrics"
)

type RestfulServer struct {
	Server           *gin.Engine
	Dispenser        *dispenser.Dispenser
	RateLimiterStore *dispenser.RateLimiterStore
	Stream           *Stream
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	if rs.RateLimiterStore == nil {
		return true
	}
	return rs.RateLimiterStore.Allow(deviceID)
}

// limitDevice rejects the request with 429 once the device's budget is spent.
func (rs *RestfulServer) limitDevice(c *gin.Context) {
	if !rs.CheckDeviceLimiter(c.Param("device_id")) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}

func requestMetrics(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	status := strconv.Itoa(c.Writer.Status())
	metrics.HttpRequests.WithLabelValues(c.Request.Method, path, status).Inc()

	common.GetLoggerWith(common.LoggerNameRestfulServer).Debug("Request served",
		zap.String("method", c.Request.Method),
		zap.String("path", path),
		zap.String("status", status),
		zap.Duration("elapsed", time.Since(start)))
}

// writeError maps core errors onto status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dispenser.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, dispenser.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(requestMetrics)

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rs.Server.GET("/devices", rs.ListDevices)

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.POST("/limiter", rs.PostLimiter)

		limited := devices.Group("", rs.limitDevice)
		limited.GET("", rs.GetDevice)
		limited.GET("/intake", rs.GetIntake)
		limited.GET("/inventory", rs.GetInventory)
		limited.GET("/adherence", rs.GetAdherence)
		limited.GET("/commands", rs.GetCommands)
		limited.POST("/commands", rs.PostCommand)
		limited.POST("/schedule", rs.PostSchedule)
	}

	faults := rs.Server.Group("/errors")
	{
		faults.GET("", rs.ListErrors)
		faults.POST("/:id/resolve", rs.ResolveError)
	}

	if rs.Stream != nil {
		rs.Server.GET("/stream", rs.Stream.Handle)
	}
}
