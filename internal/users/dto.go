package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/storerate/storerate-backend/pkg/db/models"
	"github.com/storerate/storerate-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UserCounts carries the relation totals shown on admin listings.
type UserCounts struct {
	OwnedStores int64 `json:"ownedStores"`
	Ratings     int64 `json:"ratings"`
}

// UserWithCountsDTO is a listing row with its relation counts.
type UserWithCountsDTO struct {
	UserDTO
	Counts UserCounts `json:"_count"`
}

// OwnedStoreSummary is a store owned by the user, with its rating total.
type OwnedStoreSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Counts  struct {
		Ratings int64 `json:"ratings"`
	} `json:"_count"`
}

// StoreSummary identifies the store a rating belongs to.
type StoreSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

// OwnRatingSummary is one of the user's submitted ratings.
type OwnRatingSummary struct {
	ID          uuid.UUID    `json:"id"`
	RatingValue int          `json:"ratingValue"`
	Store       StoreSummary `json:"store"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// UserDetailDTO embeds the user's owned stores and submitted ratings.
type UserDetailDTO struct {
	UserDTO
	OwnedStores []OwnedStoreSummary `json:"ownedStores"`
	Ratings     []OwnRatingSummary  `json:"ratings"`
}

// DashboardStatsDTO is the admin dashboard's three totals.
type DashboardStatsDTO struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	Address      string
	PasswordHash string
	Role         enums.Role
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		Address:      c.Address,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
	}
}

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Address  string `json:"address" validate:"max=400"`
	Password string `json:"password" validate:"required,min=8,max=16,password"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STORE_OWNER NORMAL_USER"`
}

// UpdateUserRequest patches only the provided fields.
type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=20,max=60"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
	Role    *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN STORE_OWNER NORMAL_USER"`
}

// ListUsersQuery captures the admin listing filters.
type ListUsersQuery struct {
	Name      string
	Email     string
	Address   string
	Role      string
	SortBy    string
	SortOrder string
}
