package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit values", "limit=5&offset=40", 5, 40},
		{"limit clamped to max", "limit=500", MaxLimit, 0},
		{"zero limit ignored", "limit=0", DefaultLimit, 0},
		{"negative offset ignored", "offset=-3", DefaultLimit, 0},
		{"garbage ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/wishes?"+tt.query, nil)
			p := FromRequest(r)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult_HasNext(t *testing.T) {
	data := []string{"a", "b", "c"}

	res := NewResult(data, 10, Params{Limit: 3, Offset: 0})
	assert.True(t, res.HasNext)

	res = NewResult(data, 3, Params{Limit: 3, Offset: 0})
	assert.False(t, res.HasNext)

	res = NewResult(data[:1], 4, Params{Limit: 3, Offset: 3})
	assert.False(t, res.HasNext)
}
