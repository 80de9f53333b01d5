package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxPage keeps (page-1)*limit far from overflowing.
const maxPage = 1_000_000

// queryInt reads a positive integer query parameter, falling back to def when
// it is absent, malformed, or above max.
func queryInt(c *gin.Context, key string, def, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil || v < 1 || (max > 0 && v > max) {
		return def
	}
	return v
}

func buildPagination(page, limit int, total int64) gin.H {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return gin.H{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
	}
}
