package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storerate/storerate-backend/pkg/db"
	"github.com/storerate/storerate-backend/pkg/db/models"
	"github.com/storerate/storerate-backend/pkg/enums"
)

// sortColumns whitelists the API sort keys against real columns.
var sortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"address":   "address",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// SortColumn resolves an API sort key to its column, defaulting to created_at.
func SortColumn(key string) (string, bool) {
	if key == "" {
		return "created_at", true
	}
	col, ok := sortColumns[key]
	return col, ok
}

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type userListRow struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Address          string
	Role             enums.Role
	CreatedAt        time.Time
	UpdatedAt        time.Time
	OwnedStoresCount int64
	RatingsCount     int64
}

// List returns users matching the filters, each with relation counts.
func (r *Repository) List(ctx context.Context, q ListUsersQuery) ([]UserWithCountsDTO, error) {
	sortCol, ok := SortColumn(q.SortBy)
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		order = "ASC"
	}

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select(`users.*,
			(SELECT COUNT(*) FROM stores WHERE stores.owner_id = users.id) AS owned_stores_count,
			(SELECT COUNT(*) FROM ratings WHERE ratings.user_id = users.id) AS ratings_count`)

	if q.Name != "" {
		query = query.Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Email != "" {
		query = query.Where("LOWER(users.email) LIKE ?", "%"+strings.ToLower(q.Email)+"%")
	}
	if q.Address != "" {
		query = query.Where("LOWER(users.address) LIKE ?", "%"+strings.ToLower(q.Address)+"%")
	}
	if q.Role != "" {
		query = query.Where("users.role = ?", q.Role)
	}

	var rows []userListRow
	if err := query.Order("users." + sortCol + " " + order).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]UserWithCountsDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, UserWithCountsDTO{
			UserDTO: UserDTO{
				ID:        row.ID,
				Name:      row.Name,
				Email:     row.Email,
				Address:   row.Address,
				Role:      row.Role,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
			Counts: UserCounts{
				OwnedStores: row.OwnedStoresCount,
				Ratings:     row.RatingsCount,
			},
		})
	}
	return result, nil
}

type ownedStoreRow struct {
	ID           uuid.UUID
	Name         string
	Address      string
	RatingsCount int64
}

// ListOwnedStores returns stores owned by the user, each with its rating total.
func (r *Repository) ListOwnedStores(ctx context.Context, userID uuid.UUID) ([]OwnedStoreSummary, error) {
	var rows []ownedStoreRow
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(`stores.id, stores.name, stores.address,
			(SELECT COUNT(*) FROM ratings WHERE ratings.store_id = stores.id) AS ratings_count`).
		Where("stores.owner_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]OwnedStoreSummary, 0, len(rows))
	for _, row := range rows {
		summary := OwnedStoreSummary{ID: row.ID, Name: row.Name, Address: row.Address}
		summary.Counts.Ratings = row.RatingsCount
		result = append(result, summary)
	}
	return result, nil
}

type ownRatingRow struct {
	ID           uuid.UUID
	RatingValue  int
	CreatedAt    time.Time
	StoreID      uuid.UUID
	StoreName    string
	StoreAddress string
}

// ListRatings returns the user's submitted ratings with their store summaries.
func (r *Repository) ListRatings(ctx context.Context, userID uuid.UUID) ([]OwnRatingSummary, error) {
	var rows []ownRatingRow
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`ratings.id, ratings.rating_value, ratings.created_at,
			stores.id AS store_id, stores.name AS store_name, stores.address AS store_address`).
		Joins("JOIN stores ON stores.id = ratings.store_id").
		Where("ratings.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]OwnRatingSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, OwnRatingSummary{
			ID:          row.ID,
			RatingValue: row.RatingValue,
			Store: StoreSummary{
				ID:      row.StoreID,
				Name:    row.StoreName,
				Address: row.StoreAddress,
			},
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}

// UpdatePasswordHash replaces the user's credential hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// Update saves the provided user.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	if user == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the user row. FK cascades take owned stores and ratings with it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		ownedStores := tx.Model(&models.Store{}).Select("id").Where("owner_id = ?", id)
		if err := tx.Where("store_id IN (?)", ownedStores).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&models.Store{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

// CountAll returns the dashboard totals for users, stores, and ratings.
func (r *Repository) CountAll(ctx context.Context) (*DashboardStatsDTO, error) {
	stats := &DashboardStatsDTO{}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&stats.TotalStores).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&stats.TotalRatings).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
