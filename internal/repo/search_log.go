// Package repo — search-log repository.
//
// Thin, context-aware persistence functions for SearchLog rows plus the
// aggregate queries behind the stats endpoint. No business logic lives here;
// the service layer decides when (and whether) to record a search.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistency across services and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSearchLog inserts one search-log row. The ID is a random UUID and
// CreatedAt is set to UTC.
func CreateSearchLog(ctx context.Context, db *gorm.DB, query string, resultCount int, topScore *float64, tookMS int64) (*domain.SearchLog, error) {
	row := &domain.SearchLog{
		ID:          uuid.NewString(),
		Query:       query,
		ResultCount: resultCount,
		TopScore:    topScore,
		TookMS:      tookMS,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// CountSearches returns the total number of recorded searches.
func CountSearches(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.SearchLog{}).Count(&n).Error
	return n, err
}

// QueryCount is one row of the popular-queries aggregate.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// TopQueries returns the most frequent search queries, most popular first,
// capped at limit. Ties are broken by query text ascending so the result is
// deterministic.
func TopQueries(ctx context.Context, db *gorm.DB, limit int) ([]QueryCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []QueryCount
	err := db.WithContext(ctx).
		Model(&domain.SearchLog{}).
		Select("query, COUNT(*) as count").
		Group("query").
		Order("count DESC, query ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SearchStats returns aggregate metadata over all recorded searches: the row
// count and the timestamp of the most recent search (nil when none exist).
func SearchStats(ctx context.Context, db *gorm.DB) (count int64, last *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.SearchLog{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
