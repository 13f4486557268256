package ratings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storerate/storerate-backend/pkg/db/models"
)

// Repository handles rating persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rating operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new rating row. Unique-violation errors surface raw so
// the service can translate them.
func (r *Repository) Create(ctx context.Context, dto CreateRatingDTO) (*models.Rating, error) {
	rating := dto.ToModel()
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

// FindByID loads a rating by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// FindByUserAndStore loads the unique rating for the (user, store) pair.
func (r *Repository) FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

type ratingRow struct {
	ID           uuid.UUID
	RatingValue  int
	UserID       uuid.UUID
	StoreID      uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserName     string
	UserEmail    string
	StoreName    string
	StoreAddress string
}

func (row ratingRow) toDTO() RatingDTO {
	return RatingDTO{
		ID:          row.ID,
		RatingValue: row.RatingValue,
		UserID:      row.UserID,
		StoreID:     row.StoreID,
		User: &UserSummary{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
		},
		Store: &StoreSummary{
			ID:      row.StoreID,
			Name:    row.StoreName,
			Address: row.StoreAddress,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

const ratingRefsSelect = `ratings.id, ratings.rating_value, ratings.user_id, ratings.store_id,
	ratings.created_at, ratings.updated_at,
	users.name AS user_name, users.email AS user_email,
	stores.name AS store_name, stores.address AS store_address`

func (r *Repository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(ratingRefsSelect).
		Joins("JOIN users ON users.id = ratings.user_id").
		Joins("JOIN stores ON stores.id = ratings.store_id")
}

// FindByIDWithRefs loads a rating with its user and store summaries.
func (r *Repository) FindByIDWithRefs(ctx context.Context, id uuid.UUID) (*RatingDTO, error) {
	var row ratingRow
	if err := r.withRefs(ctx).Where("ratings.id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	dto := row.toDTO()
	return &dto, nil
}

// FindByUserAndStoreWithRefs loads the pair's rating with summaries, or
// ErrRecordNotFound when the user has not rated the store.
func (r *Repository) FindByUserAndStoreWithRefs(ctx context.Context, userID, storeID uuid.UUID) (*RatingDTO, error) {
	var row ratingRow
	err := r.withRefs(ctx).
		Where("ratings.user_id = ? AND ratings.store_id = ?", userID, storeID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	dto := row.toDTO()
	return &dto, nil
}

// ListAll returns every rating newest-first with summaries.
func (r *Repository) ListAll(ctx context.Context) ([]RatingDTO, error) {
	return r.scanRows(r.withRefs(ctx).Order("ratings.created_at DESC"))
}

// ListByUser returns the user's ratings newest-first with summaries.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]RatingDTO, error) {
	return r.scanRows(r.withRefs(ctx).
		Where("ratings.user_id = ?", userID).
		Order("ratings.created_at DESC"))
}

// ListByStore returns the store's ratings newest-first with summaries.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]RatingDTO, error) {
	return r.scanRows(r.withRefs(ctx).
		Where("ratings.store_id = ?", storeID).
		Order("ratings.created_at DESC"))
}

func (r *Repository) scanRows(query *gorm.DB) ([]RatingDTO, error) {
	var rows []ratingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]RatingDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDTO())
	}
	return result, nil
}

// UpdateValue replaces the rating value on the row.
func (r *Repository) UpdateValue(ctx context.Context, id uuid.UUID, value int) error {
	return r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("id = ?", id).
		Update("rating_value", value).Error
}

// Delete removes the rating row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Rating{}, "id = ?", id).Error
}
