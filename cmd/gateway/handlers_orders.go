package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/orders"
)

func listOrdersHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		res, err := api.ListOrders(c.Request.Context(), page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func orderTrackingHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := api.OrderTracking(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders.BuildTimeline(events))
	}
}
