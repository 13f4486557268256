package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a single 1-5 star submission. The composite unique index on
// (user_id, store_id) is the arbiter for the one-rating-per-store rule.
type Rating struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RatingValue int       `gorm:"column:rating_value;not null"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_ratings_user_store"`
	StoreID     uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_ratings_user_store"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
