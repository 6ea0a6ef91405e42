package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/requestdata"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.BadRequest("invalid " + name)
	}
	return id, nil
}

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized("not authenticated")
	}
	return rd.UserID, nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// householdScope extracts the authenticated user and the householdId path
// parameter, the common prefix of every household-scoped route.
func householdScope(c *gin.Context) (userID, householdID uuid.UUID, err error) {
	userID, err = currentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	householdID, err = uuidParam(c, "householdId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, householdID, nil
}
