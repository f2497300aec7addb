package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/notehive/notehive/internal/middleware"
)

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "INVALID_ID", "Invalid "+name+" parameter", nil)
		return 0, false
	}
	return id, true
}

func callerID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		respondBadRequest(c, "MISSING_CALLER", "Caller identity not resolved", nil)
		return 0, false
	}
	return userID, true
}
