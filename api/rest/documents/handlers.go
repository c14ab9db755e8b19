package documents

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/lumina/server/api/rest/pagination"
	apperrors "codeberg.org/lumina/server/internal/errors"
)

// lists the caller's ingested documents, newest first
func ListHandler(store Lister) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListRequest

		if err := c.ShouldBindQuery(&req); err != nil {
			apperrors.BadRequest(c, err)
			return
		}

		page := req.Params.Normalize(defaultPageSize, maxPageSize)

		docs, total, err := store.ListDocuments(c.Request.Context(), req.UserID, page.Limit, page.Offset)
		if err != nil {
			apperrors.QueryFailure(c, "failed to list documents", err)
			return
		}

		c.JSON(http.StatusOK, ListResponse{
			Documents:  docs,
			Pagination: pagination.NewMeta(page, total),
		})
	}
}
