package utils

import (
	"strconv"

	"github.com/dkrasnov/project-tracker-api/internal/constants"
	"github.com/gin-gonic/gin"
)

// PageParams holds limit/offset pagination parameters
type PageParams struct {
	Limit  int
	Offset int
}

// GetPageParams extracts and clamps limit/offset from the request query
func GetPageParams(c *gin.Context) PageParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit < 1 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	return PageParams{
		Limit:  limit,
		Offset: offset,
	}
}
