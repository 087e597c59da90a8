package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

func (h *handlerImpl) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI Task Management Agent API"})
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, pingTimeout)
	defer cancel()

	err := h.store.Ping(ctx)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to ping store")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
