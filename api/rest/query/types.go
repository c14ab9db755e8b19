package query

// Request is the POST /query body.
type Request struct {
	Query  string `json:"query" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
	Limit  int    `json:"limit" binding:"omitempty,min=1,max=50"`
}

type Response struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
