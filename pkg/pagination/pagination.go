package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds feed pagination parameters extracted from query strings.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultParams returns the default first feed page.
func DefaultParams() Params {
	return Params{Limit: DefaultLimit, Offset: 0}
}

// FromRequest extracts limit/offset from an HTTP request. Out-of-range or
// malformed values fall back to the defaults rather than erroring.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}

	return p
}

// Result wraps a paginated feed response.
type Result[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasNext    bool  `json:"has_next"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int64, params Params) Result[T] {
	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Limit:      params.Limit,
		Offset:     params.Offset,
		HasNext:    int64(params.Offset+len(data)) < totalCount,
	}
}
