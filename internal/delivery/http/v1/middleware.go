package v1

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adanyl0v/go-todo-agent/internal/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
)

// unmatchedRoute labels requests that hit no registered route, so that
// arbitrary paths cannot blow up metric cardinality.
const unmatchedRoute = "unmatched"

func (h *handlerImpl) HandleRequestID(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)
	c.Next()
}

func (h *handlerImpl) HandleRequestLogging(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	event := h.logger.Info()
	switch {
	case status >= 500:
		event = h.logger.Error()
	case status >= 400:
		event = h.logger.Warn()
	}

	event.
		Str("method", c.Request.Method).
		Str("route", route(c)).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Float64("duration_ms", float64(time.Since(start).Microseconds())/1000).
		Str("request_id", c.GetString(requestIDCtxKey)).
		Msg("handled request")
}

func (h *handlerImpl) HandleMetrics(c *gin.Context) {
	start := time.Now()
	metrics.InFlightRequests.Inc()
	defer metrics.InFlightRequests.Dec()

	c.Next()

	r := route(c)
	metrics.RequestsTotal.
		WithLabelValues(c.Request.Method, r, strconv.Itoa(c.Writer.Status())).
		Inc()
	metrics.RequestDuration.
		WithLabelValues(c.Request.Method, r).
		Observe(time.Since(start).Seconds())
}

func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return unmatchedRoute
}
