package documents

import (
	"context"

	"codeberg.org/lumina/server/api/rest/pagination"
	"codeberg.org/lumina/server/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Lister interface {
	ListDocuments(ctx context.Context, userID string, limit, offset int) ([]storage.DocumentSummary, int, error)
}

type ListRequest struct {
	UserID string `form:"user_id" binding:"required"`
	pagination.Params
}

type ListResponse struct {
	Documents  []storage.DocumentSummary `json:"documents"`
	Pagination pagination.Meta           `json:"pagination"`
}
