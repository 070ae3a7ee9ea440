// Package review turns backend review summaries into display view models.
package review

import (
	"strconv"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

// MaxBarWidth is the display width the largest possible bar maps to.
const MaxBarWidth = 100.0

type Bar struct {
	Stars int     `json:"stars"`
	Count int     `json:"count"`
	Width float64 `json:"width"`
}

// Bars converts a sparse star→count mapping into five bars ordered 5→1.
// The denominator floors at 1 so a zero-review product renders five empty
// bars instead of dividing by zero. Distribution counts are not checked
// against total_reviews; drift renders slightly wrong bars, nothing worse.
func Bars(s backend.ReviewSummary) [5]Bar {
	total := s.TotalReviews
	if total < 1 {
		total = 1
	}
	var bars [5]Bar
	for i, stars := 0, 5; stars >= 1; i, stars = i+1, stars-1 {
		count := s.RatingDistribution[strconv.Itoa(stars)]
		bars[i] = Bar{
			Stars: stars,
			Count: count,
			Width: float64(count) / float64(total) * MaxBarWidth,
		}
	}
	return bars
}

// SubmitRequest is the storefront's review submission payload, validated
// before it is proxied to the backend.
type SubmitRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title"`
	Comment   string `json:"comment" binding:"required"`
}

func (r SubmitRequest) Input() backend.ReviewInput {
	return backend.ReviewInput{
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Title:     r.Title,
		Content:   r.Comment,
	}
}
