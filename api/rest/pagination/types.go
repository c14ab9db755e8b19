package pagination

// Params is a requested page, bound from the limit and offset query parameters
type Params struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Meta describes the page that was returned
type Meta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Normalize fills in defaultLimit and clamps the page to maxLimit items
func (p Params) Normalize(defaultLimit, maxLimit int) Params {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}

	p.Limit = min(p.Limit, maxLimit)
	p.Offset = max(p.Offset, 0)

	return p
}

func NewMeta(params Params, total int) Meta {
	return Meta{
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset < total-params.Limit,
	}
}
