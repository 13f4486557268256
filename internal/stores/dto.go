package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/storerate/storerate-backend/pkg/db/models"
	"github.com/storerate/storerate-backend/pkg/enums"
)

// StoreDTO exposes the store row in API responses.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerSummary describes the owning user on store responses.
type OwnerSummary struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Address string     `json:"address"`
	Role    enums.Role `json:"role"`
}

// RaterSummary identifies who submitted a rating on a store.
type RaterSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// StoreRatingDTO is a store's rating row with its submitter.
type StoreRatingDTO struct {
	ID          uuid.UUID    `json:"id"`
	RatingValue int          `json:"ratingValue"`
	User        RaterSummary `json:"user"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// StoreWithStatsDTO is a listing row with owner and rating aggregates.
type StoreWithStatsDTO struct {
	StoreDTO
	Owner         *OwnerSummary `json:"owner,omitempty"`
	RatingCount   int64         `json:"ratingCount"`
	AverageRating float64       `json:"averageRating"`
}

// StoreDetailDTO adds the newest-first rating list to the stats view.
type StoreDetailDTO struct {
	StoreWithStatsDTO
	Ratings []StoreRatingDTO `json:"ratings"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	Name    string
	Address string
	OwnerID uuid.UUID
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation data.
func (c CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		Name:    c.Name,
		Address: c.Address,
		OwnerID: c.OwnerID,
	}
}

// CreateStoreRequest is the admin store-creation payload.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID string `json:"ownerId" validate:"required,uuid"`
}

// UpdateStoreRequest patches only the provided fields.
type UpdateStoreRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
	OwnerID *string `json:"ownerId,omitempty" validate:"omitempty,uuid"`
}

// ListStoresQuery captures the public listing filters.
type ListStoresQuery struct {
	Name      string
	Address   string
	SortBy    string
	SortOrder string
}
