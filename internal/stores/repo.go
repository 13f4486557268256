package stores

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

var sortColumns = map[string]string{
	"name":      "name",
	"address":   "address",
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

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

type storeListRow struct {
	ID            uuid.UUID
	Name          string
	Address       string
	OwnerID       uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerName     string
	OwnerEmail    string
	OwnerAddress  string
	OwnerRole     enums.Role
	RatingCount   int64
	AverageRating float64
}

func (row storeListRow) toDTO() StoreWithStatsDTO {
	return StoreWithStatsDTO{
		StoreDTO: StoreDTO{
			ID:        row.ID,
			Name:      row.Name,
			Address:   row.Address,
			OwnerID:   row.OwnerID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		Owner: &OwnerSummary{
			ID:      row.OwnerID,
			Name:    row.OwnerName,
			Email:   row.OwnerEmail,
			Address: row.OwnerAddress,
			Role:    row.OwnerRole,
		},
		RatingCount:   row.RatingCount,
		AverageRating: row.AverageRating,
	}
}

const storeStatsSelect = `stores.id, stores.name, stores.address, stores.owner_id,
	stores.created_at, stores.updated_at,
	users.name AS owner_name, users.email AS owner_email,
	users.address AS owner_address, users.role AS owner_role,
	(SELECT COUNT(*) FROM ratings WHERE ratings.store_id = stores.id) AS rating_count,
	(SELECT COALESCE(AVG(rating_value), 0) FROM ratings WHERE ratings.store_id = stores.id) AS average_rating`

// List returns stores matching the filters with owner and rating aggregates.
func (r *Repository) List(ctx context.Context, q ListStoresQuery) ([]StoreWithStatsDTO, error) {
	sortCol, ok := SortColumn(q.SortBy)
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		order = "ASC"
	}

	query := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(storeStatsSelect).
		Joins("JOIN users ON users.id = stores.owner_id")

	if q.Name != "" {
		query = query.Where("LOWER(stores.name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Address != "" {
		query = query.Where("LOWER(stores.address) LIKE ?", "%"+strings.ToLower(q.Address)+"%")
	}

	var rows []storeListRow
	if err := query.Order("stores." + sortCol + " " + order).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]StoreWithStatsDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDTO())
	}
	return result, nil
}

// FindByIDWithStats loads a single store with owner and rating aggregates.
func (r *Repository) FindByIDWithStats(ctx context.Context, id uuid.UUID) (*StoreWithStatsDTO, error) {
	var row storeListRow
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(storeStatsSelect).
		Joins("JOIN users ON users.id = stores.owner_id").
		Where("stores.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	dto := row.toDTO()
	return &dto, nil
}

type storeRatingRow struct {
	ID          uuid.UUID
	RatingValue int
	CreatedAt   time.Time
	UserID      uuid.UUID
	UserName    string
	UserEmail   string
}

// ListRatings returns the store's ratings newest-first with rater summaries.
func (r *Repository) ListRatings(ctx context.Context, storeID uuid.UUID) ([]StoreRatingDTO, error) {
	var rows []storeRatingRow
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`ratings.id, ratings.rating_value, ratings.created_at,
			users.id AS user_id, users.name AS user_name, users.email AS user_email`).
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ?", storeID).
		Order("ratings.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]StoreRatingDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, StoreRatingDTO{
			ID:          row.ID,
			RatingValue: row.RatingValue,
			User: RaterSummary{
				ID:    row.UserID,
				Name:  row.UserName,
				Email: row.UserEmail,
			},
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}

type ownedStoreRow struct {
	ID            uuid.UUID
	Name          string
	Address       string
	OwnerID       uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	RatingCount   int64
	AverageRating float64
}

// ListByOwner returns the owner's stores with rating aggregates.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithStatsDTO, error) {
	var rows []ownedStoreRow
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(`stores.id, stores.name, stores.address, stores.owner_id,
			stores.created_at, stores.updated_at,
			(SELECT COUNT(*) FROM ratings WHERE ratings.store_id = stores.id) AS rating_count,
			(SELECT COALESCE(AVG(rating_value), 0) FROM ratings WHERE ratings.store_id = stores.id) AS average_rating`).
		Where("stores.owner_id = ?", ownerID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]StoreWithStatsDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, StoreWithStatsDTO{
			StoreDTO: StoreDTO{
				ID:        row.ID,
				Name:      row.Name,
				Address:   row.Address,
				OwnerID:   row.OwnerID,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
			RatingCount:   row.RatingCount,
			AverageRating: row.AverageRating,
		})
	}
	return result, nil
}

// Update saves the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes the store row. FK cascades take its ratings with it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Store{}, "id = ?", id).Error
	})
}
