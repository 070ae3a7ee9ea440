package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/review"
)

func listReviewsHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		pageSize, _ := strconv.Atoi(c.Query("page_size"))
		res, err := api.ListReviews(c.Request.Context(), c.Param("id"), page, pageSize, c.Query("ordering"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// reviewSummaryHandler returns the backend summary along with the reduced
// five-bar distribution, ordered 5→1.
func reviewSummaryHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := api.ReviewSummary(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"average_rating": s.AverageRating,
			"total_reviews":  s.TotalReviews,
			"bars":           review.Bars(*s),
		})
	}
}

func submitReviewHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req review.SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rev, err := api.SubmitReview(c.Request.Context(), req.Input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rev)
	}
}

func voteReviewHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Helpful *bool `json:"helpful" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := api.VoteReview(c.Request.Context(), c.Param("id"), *body.Helpful); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
