package errors

import (
	"net/http"

	"codeberg.org/lumina/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP handlers:
//   - Use errors.QueryFailure() for failures on the query path. It logs and
//     writes the response, so do not also call logger.ErrorErr for the same error.
//
// For the queue consumer:
//   - The consumer is the only place ingestion failures get logged. It uses
//     KindOf() to decide between ack, reject and requeue.
//
// For services, repositories and internal packages:
//   - Return errors wrapped with New/Transient/Permanent/Resource/Store/Embedding,
//     or fmt.Errorf("context: %w", err) when the kind is already set underneath.
//   - Do not log errors in non-handler code (avoid double logging).

// writes a query-path failure. The baseline contract keeps status 200 and
// reports the failure in the "error" field.
func QueryFailure(c *gin.Context, message string, err error) {
	info := classifyError(err)

	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"category", info.category,
		"kind", KindOf(err).String(),
	)

	c.JSON(http.StatusOK, ErrorResponse{Error: info.sanitized})
}

// writes a request that could not be decoded. Same status policy as QueryFailure.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusOK, ErrorResponse{Error: sanitizeError(err)})
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	return classifyError(err).sanitized
}
