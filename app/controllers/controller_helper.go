package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// firstHeaderValue returns the first non-empty header among keys.
func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}

// parsePagination reads ?page= and ?limit= query params with sane bounds.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	return (page - 1) * limit, limit
}
