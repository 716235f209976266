package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// PaginationParams holds pagination parameters read from the query string
type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset. Missing values are zero; clamping is left to the service.
func ParsePagination(c *gin.Context) (PaginationParams, error) {
	limit, err := QueryInt(c, "limit")
	if err != nil {
		return PaginationParams{}, err
	}
	offset, err := QueryInt(c, "offset")
	if err != nil {
		return PaginationParams{}, err
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// QueryInt reads an optional integer query parameter
func QueryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// QueryBool reads an optional boolean query parameter
func QueryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}

// QueryString reads an optional string query parameter
func QueryString(c *gin.Context, key string) *string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// QueryList reads a comma separated or repeated query parameter
func QueryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
