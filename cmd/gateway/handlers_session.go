package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/session"
)

// loginHandler proxies credentials to the backend and, on success, stores the
// issued token under a fresh session id. The password never persists here.
func loginHandler(api *backend.Client, sessions *session.Store, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tok, err := api.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		sid, err := sessions.Create(c.Request.Context(), tok)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := gin.H{"session_id": sid}
		if claims, err := session.ParseClaims(tok, secret); err == nil {
			resp["role"] = claims.Role
			resp["email"] = claims.Email
		}
		c.JSON(http.StatusOK, resp)
	}
}

func logoutHandler(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := sessionID(c)
		if sid == "" {
			c.Status(http.StatusNoContent)
			return
		}
		if err := sessions.Invalidate(c.Request.Context(), sid); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
