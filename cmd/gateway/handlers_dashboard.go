package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/dashboard"
	"github.com/voltmart/storefront-gateway/internal/session"
)

// dashboardHandler serves admin metrics through the orchestrator. Metric
// failures never surface as errors here: the orchestrator degrades through
// its tiers and the payload's source field says which tier answered.
// Snapshots are scoped to the verified caller: derived metrics come from the
// caller's own order list, so user A's numbers must never warm user B's view.
func dashboardHandler(orch *dashboard.Orchestrator, topN int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scope string
		if v, ok := c.Get(claimsKey); ok {
			if claims, ok := v.(*session.Claims); ok {
				scope = claims.UserID
			}
		}
		snap := orch.Load(c.Request.Context(), dashboard.Options{
			Scope:  scope,
			Period: c.DefaultQuery("period", "month"),
			TopN:   topN,
			Force:  c.Query("refresh") == "1",
		})
		c.JSON(http.StatusOK, snap)
	}
}
