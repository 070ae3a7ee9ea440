package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/session"
)

const claimsKey = "claims"

func sessionID(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	sid, _ := c.Cookie("session_id")
	return sid
}

// withSession resolves the caller's session, if any, and attaches the backend
// token to the request context. A missing or revoked session is not an error
// here: the request goes out unauthenticated and the backend decides. While
// the request is in flight it subscribes to session invalidation, so a 401
// revoke on one request aborts this one instead of letting it finish on a
// token the store has already dropped.
func withSession(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := sessionID(c)
		if sid == "" {
			c.Next()
			return
		}
		ctx := session.WithID(c.Request.Context(), sid)
		tok, err := sessions.Token(ctx, sid)
		if err == nil && tok != "" {
			ctx = backend.WithToken(ctx, tok)
		}

		ctx, cancel := context.WithCancel(ctx)
		revoked, unsubscribe := sessions.Subscribe(sid)
		go func() {
			select {
			case <-revoked:
				cancel()
			case <-ctx.Done():
			}
		}()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
		cancel()
		unsubscribe()
	}
}

// authRequired rejects requests without a resolvable token. Claims are parsed
// locally for routing only; the backend remains the authority on the token.
func authRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := backend.TokenFrom(c.Request.Context())
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		claims, err := session.ParseClaims(tok, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(claimsKey)
		claims, _ := v.(*session.Claims)
		if !ok || claims == nil || (claims.Role != "admin" && claims.Role != "vendor") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// respondError maps backend sentinel errors onto gateway responses. Errors
// stop here; nothing propagates past the handler boundary.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
	case errors.Is(err, backend.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, backend.ErrBadGateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
