// Package httputil holds the small shared HTTP shapes: the pagination
// envelope reused by every list endpoint and the JSON error body.
package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page is the fixed page-response shape shared by all list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Size          int   `json:"size"`
}

// NewPage wraps one page of content in the envelope. Content is never
// null in the JSON, even for an empty page.
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		Number:        page,
		TotalPages:    totalPages,
		TotalElements: total,
		Size:          size,
	}
}

// PageParams reads ?page= and ?size= with sane bounds.
func PageParams(c *gin.Context, defaultSize int) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if page < 0 {
		page = 0
	}
	if size < 1 || size > 100 {
		size = defaultSize
	}
	return page, size
}

// Error writes the uniform {message} error body.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
