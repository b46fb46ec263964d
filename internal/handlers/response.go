package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusOK      = "ok"
	statusCleared = "cleared"
	statusUpdated = "updated"

	errCodeInternal = "internal"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string `json:"error" example:"internal"`
	Message string `json:"message,omitempty" example:"analysis timed out: record still present after 30 attempts"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, errorResponse{Error: userMsg})
}

// internalError replies 500 with the coarse "internal" code and the failing
// phase in message.
func (h *Handler) internalError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errCodeInternal, Message: err.Error()})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
