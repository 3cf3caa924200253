package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
	}{
		{"defaults", 0, 0, Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"third page", 3, 10, Params{Page: 3, Limit: 10, Offset: 20}},
		{"limit capped", 2, 500, Params{Page: 2, Limit: MaxLimit, Offset: MaxLimit}},
		{"negative page", -4, 5, Params{Page: 1, Limit: 5, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.page, tt.limit))
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(New(2, 10), 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	empty := NewMeta(New(1, 10), 0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
