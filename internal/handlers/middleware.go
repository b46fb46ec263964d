package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer"

	// userIDKey holds the authenticated user id in the gin context.
	userIDKey = "userId"

	errMissingAuth  = "missing Authorization header"
	errBadAuthValue = "invalid Authorization header format"
	errBadToken     = "invalid or expired token"
)

// userIdMiddleware guards /api/v1. It resolves the bearer token to a user id,
// which handlers read back with currentUserID and record on analysis events.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, problem := bearerToken(c.GetHeader(authorizationHeader))
	if problem != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: problem})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: errBadToken})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

// bearerToken extracts the token from "Bearer <token>". The second result is
// the client-facing reason when the header is unusable.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", errMissingAuth
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || scheme != bearerScheme || token == "" {
		return "", errBadAuthValue
	}
	return token, ""
}

// currentUserID is the id stored by userIdMiddleware, 0 outside /api/v1.
func currentUserID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}
