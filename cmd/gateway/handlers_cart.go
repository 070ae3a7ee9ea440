package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/cart"
)

// requireCartSession returns the caller's session id or writes a 400. Carts
// work for anonymous sessions too; the id only needs to be stable, not
// authenticated.
func requireCartSession(c *gin.Context) (string, bool) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id required"})
		return "", false
	}
	return sid, true
}

func getCartHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := requireCartSession(c)
		if !ok {
			return
		}
		items, err := carts.Items(c.Request.Context(), sid)
		if err != nil {
			respondError(c, err)
			return
		}
		count, subtotal := cart.Totals(items)
		c.JSON(http.StatusOK, gin.H{
			"items":    items,
			"count":    count,
			"subtotal": subtotal.StringFixed(2),
		})
	}
}

func putCartItemHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := requireCartSession(c)
		if !ok {
			return
		}
		var it cart.Item
		if err := c.ShouldBindJSON(&it); err != nil || it.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item"})
			return
		}
		if err := carts.Put(c.Request.Context(), sid, it); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeCartItemHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := requireCartSession(c)
		if !ok {
			return
		}
		if err := carts.Remove(c.Request.Context(), sid, c.Param("product_id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := requireCartSession(c)
		if !ok {
			return
		}
		if err := carts.Clear(c.Request.Context(), sid); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
