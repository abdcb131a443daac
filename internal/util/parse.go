package util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePositiveQuery reads an integer query parameter that must be at least 1.
// A missing parameter yields defaultValue.
func ParsePositiveQuery(c *gin.Context, name string, defaultValue int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	if val < 1 {
		return 0, fmt.Errorf("%s must be at least 1", name)
	}
	return val, nil
}

// ClampInt limits val to at most max
func ClampInt(val, max int) int {
	if val > max {
		return max
	}
	return val
}
