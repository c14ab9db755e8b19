package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/queue"
)

const pingTimeout = 2 * time.Second

// returns the fixed liveness payload
func RootHandler(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, RootResponse{
			Service: service,
			Status:  "OK",
		})
	}
}

// reports store reachability and consumer state, 503 when either is degraded
func Handler(service string, store Pinger, consumer ConsumerStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Service: service,
			Status:  "OK",
			Store:   "OK",
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Warn("health check: store unreachable", "error", err)
			resp.Store = "unreachable"
			resp.Status = "degraded"
		}

		resp.Consumer = consumer.Stats()
		if resp.Consumer.State != queue.StateConsuming.String() {
			resp.Status = "degraded"
		}

		status := http.StatusOK
		if resp.Status != "OK" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, resp)
	}
}
