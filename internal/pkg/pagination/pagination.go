package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusnotes/core/internal/pkg/response"
)

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// Query is a sanitized page request. Build one with FromContext so the
// bounds always hold.
type Query struct {
	Page int
	Size int
}

// Offset is the number of rows the window skips.
func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// FromContext reads page and size from the query string. Anything missing,
// malformed, or out of range falls back to the defaults.
func FromContext(c *gin.Context) Query {
	q := Query{Page: DefaultPage, Size: DefaultSize}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		q.Size = v
		if q.Size > MaxSize {
			q.Size = MaxSize
		}
	}
	return q
}

// Paginate runs a count plus a windowed find on db and returns the page
// metadata alongside the rows in dest.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := db.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	pages := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   pages,
		Size:        q.Size,
		HasNextPage: q.Page < pages,
	}, nil
}
