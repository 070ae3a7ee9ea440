package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

func TestBars_Proportions(t *testing.T) {
	s := backend.ReviewSummary{
		TotalReviews: 17,
		RatingDistribution: map[string]int{
			"5": 8, "4": 5, "3": 3, "2": 1, "1": 0,
		},
	}
	bars := Bars(s)

	assert.Equal(t, 5, bars[0].Stars, "output order is fixed 5 down to 1")
	assert.Equal(t, 1, bars[4].Stars)
	assert.InDelta(t, 8.0/17.0*MaxBarWidth, bars[0].Width, 1e-9)
	assert.InDelta(t, 5.0/17.0*MaxBarWidth, bars[1].Width, 1e-9)
	assert.Equal(t, 0.0, bars[4].Width)
}

func TestBars_ZeroReviews(t *testing.T) {
	bars := Bars(backend.ReviewSummary{TotalReviews: 0})
	for _, b := range bars {
		assert.Equal(t, 0.0, b.Width)
		assert.Equal(t, 0, b.Count)
	}
}

func TestBars_SparseDistribution(t *testing.T) {
	s := backend.ReviewSummary{
		TotalReviews:       4,
		RatingDistribution: map[string]int{"3": 4},
	}
	bars := Bars(s)
	assert.Equal(t, MaxBarWidth, bars[2].Width)
	assert.Equal(t, 0.0, bars[0].Width)
}
