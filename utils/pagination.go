package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageInfo describes one page of a list response; goes into the meta field.
type PageInfo struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// PageParams reads page/limit query params with defaults and caps.
func PageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Paginate counts the scoped query and fills out with one page of rows.
// The query must already be scoped to a model (and any filters).
func Paginate(query *gorm.DB, c *gin.Context, out interface{}) (*PageInfo, error) {
	page, limit := PageParams(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Find(out).Error; err != nil {
		return nil, err
	}

	return &PageInfo{Total: total, Page: page, Limit: limit}, nil
}
