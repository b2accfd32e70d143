package domain

import (
	"time"

	"gorm.io/gorm"
)

// SearchLog records one ingredient search for usage statistics. Rows are
// written best effort after a search completes; a failed insert never fails
// the request that produced it.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Query: the normalized, space-joined ingredient query.
//   - ResultCount: number of recipes returned (0 for "no matches").
//   - TopScore: similarity score of the best match, nil when nothing matched.
//   - TookMS: end-to-end search duration in milliseconds.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type SearchLog struct {
	ID          string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Query       string         `json:"query"         gorm:"type:text;not null;index:idx_search_query"`
	ResultCount int            `json:"result_count"  gorm:"not null"`
	TopScore    *float64       `json:"top_score,omitempty"`
	TookMS      int64          `json:"took_ms"       gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for SearchLog.
func (SearchLog) TableName() string { return "search_logs" }
