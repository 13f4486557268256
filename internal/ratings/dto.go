package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/storerate/storerate-backend/pkg/db/models"
)

// UserSummary identifies the submitting user on rating responses.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// StoreSummary identifies the rated store on rating responses.
type StoreSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

// RatingDTO is the transport shape of a rating row.
type RatingDTO struct {
	ID          uuid.UUID     `json:"id"`
	RatingValue int           `json:"ratingValue"`
	UserID      uuid.UUID     `json:"userId"`
	StoreID     uuid.UUID     `json:"storeId"`
	User        *UserSummary  `json:"user,omitempty"`
	Store       *StoreSummary `json:"store,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CreateRatingDTO holds the data required by the repo to persist a rating.
type CreateRatingDTO struct {
	RatingValue int
	UserID      uuid.UUID
	StoreID     uuid.UUID
}

func FromModel(m *models.Rating) *RatingDTO {
	if m == nil {
		return nil
	}
	return &RatingDTO{
		ID:          m.ID,
		RatingValue: m.RatingValue,
		UserID:      m.UserID,
		StoreID:     m.StoreID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (c CreateRatingDTO) ToModel() *models.Rating {
	return &models.Rating{
		RatingValue: c.RatingValue,
		UserID:      c.UserID,
		StoreID:     c.StoreID,
	}
}

// CreateRatingRequest is the rating submission payload.
type CreateRatingRequest struct {
	StoreID     string `json:"storeId" validate:"required,uuid"`
	RatingValue int    `json:"ratingValue" validate:"required,min=1,max=5"`
}

// UpdateRatingRequest replaces the rating value.
type UpdateRatingRequest struct {
	RatingValue int `json:"ratingValue" validate:"required,min=1,max=5"`
}
