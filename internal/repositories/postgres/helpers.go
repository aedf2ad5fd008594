package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// SharedHelpers holds query-building logic reused across the repositories.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyPaginationAndSort applies pagination and sorting to a query. Unknown
// sort columns fall back to created_at to keep the ORDER BY injectable-safe.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	if !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

var allowedSortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"submitted_at": true,
	"started_at":   true,
	"status":       true,
}
