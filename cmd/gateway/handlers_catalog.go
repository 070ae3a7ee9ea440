package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/catalog"
)

// listProductsHandler translates the storefront's filter selections into the
// backend's listing query. Category and brand are independent AND filters;
// an empty result set is a normal outcome, not an error.
func listProductsHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		pageSize, _ := strconv.Atoi(c.Query("page_size"))
		q := catalog.ListQuery{
			Category: c.Query("category"),
			Brand:    c.Query("brand"),
			Search:   c.Query("q"),
			Ordering: c.Query("ordering"),
			Page:     page,
			PageSize: pageSize,
		}
		res, err := api.ListProducts(c.Request.Context(), q.Values())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func getProductHandler(api *backend.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := api.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
