package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaginationParams struct {
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"page_size" form:"page_size"`
	Sort     string `json:"sort" form:"sort"`
	Order    string `json:"order" form:"order"`
}

type PaginationMeta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// GetPaginationParams reads page, page_size, sort and order from the query
// string, clamping them to sane bounds.
func GetPaginationParams(c *gin.Context) *PaginationParams {
	params := &PaginationParams{
		Sort:  c.DefaultQuery("sort", "created_at"),
		Order: c.DefaultQuery("order", "desc"),
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))

	if params.Page < 1 {
		params.Page = 1
	}
	params.PageSize = clamp(params.PageSize, MinPageSize, MaxPageSize)
	if params.Order != "asc" {
		params.Order = "desc"
	}
	return params
}

// GetSortOptions translates the params into mongo find options.
func (p *PaginationParams) GetSortOptions() *options.FindOptions {
	direction := -1
	if p.Order == "asc" {
		direction = 1
	}
	return options.Find().
		SetSkip(int64((p.Page - 1) * p.PageSize)).
		SetLimit(int64(p.PageSize)).
		SetSort(bson.D{{Key: p.Sort, Value: direction}})
}

func CreatePaginationMeta(params *PaginationParams, total int64) *PaginationMeta {
	pages := int(math.Ceil(float64(total) / float64(params.PageSize)))
	return &PaginationMeta{
		Page:        params.Page,
		PageSize:    params.PageSize,
		Total:       total,
		TotalPages:  pages,
		HasNext:     params.Page < pages,
		HasPrevious: params.Page > 1,
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
