package query

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/retriever"
)

type Querier interface {
	Query(ctx context.Context, req retriever.Request) (*retriever.Response, error)
}

// answers a question from the caller's own documents
func Handler(svc Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, err)
			return
		}

		logger.Debug("query received", "user_id", req.UserID, "limit", req.Limit)

		resp, err := svc.Query(c.Request.Context(), retriever.Request{
			Query:  req.Query,
			UserID: req.UserID,
			Limit:  req.Limit,
		})
		if err != nil {
			apperrors.QueryFailure(c, "query failed", err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Answer:  resp.Answer,
			Sources: resp.Sources,
		})
	}
}
