package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storerate/storerate-backend/pkg/db"
	"github.com/storerate/storerate-backend/pkg/db/models"
	pkgerrors "github.com/storerate/storerate-backend/pkg/errors"
)

type ratingRepository interface {
	Create(ctx context.Context, dto CreateRatingDTO) (*models.Rating, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error)
	FindByIDWithRefs(ctx context.Context, id uuid.UUID) (*RatingDTO, error)
	FindByUserAndStoreWithRefs(ctx context.Context, userID, storeID uuid.UUID) (*RatingDTO, error)
	ListAll(ctx context.Context) ([]RatingDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]RatingDTO, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]RatingDTO, error)
	UpdateValue(ctx context.Context, id uuid.UUID, value int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes rating operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRatingRequest) (*RatingDTO, error)
	List(ctx context.Context) ([]RatingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RatingDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]RatingDTO, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]RatingDTO, error)
	GetForUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*RatingDTO, error)
	Update(ctx context.Context, id, userID uuid.UUID, req UpdateRatingRequest) (*RatingDTO, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo   ratingRepository
	stores storesRepository
}

// NewService builds a ratings service with the provided repositories.
func NewService(repo ratingRepository, stores storesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ratings repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func validateRatingValue(value int) error {
	if value < 1 || value > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ratingValue must be between 1 and 5")
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRatingRequest) (*RatingDTO, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storeId must be a valid uuid")
	}
	if err := validateRatingValue(req.RatingValue); err != nil {
		return nil, err
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup store")
	}

	// Fast-path duplicate check; the composite unique index is the arbiter
	// under concurrent submissions.
	if _, err := s.repo.FindByUserAndStore(ctx, userID, storeID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user has already rated this store")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rating")
	}

	rating, err := s.repo.Create(ctx, CreateRatingDTO{
		RatingValue: req.RatingValue,
		UserID:      userID,
		StoreID:     storeID,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "ux_ratings_user_store") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user has already rated this store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rating")
	}

	return s.withRefs(ctx, rating.ID)
}

func (s *service) List(ctx context.Context) ([]RatingDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RatingDTO, error) {
	return s.withRefs(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]RatingDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user ratings")
	}
	return rows, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]RatingDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store ratings")
	}
	return rows, nil
}

// GetForUserAndStore returns nil, not an error, when the user has not rated
// the store yet.
func (s *service) GetForUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*RatingDTO, error) {
	dto, err := s.repo.FindByUserAndStoreWithRefs(ctx, userID, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}
	return dto, nil
}

func (s *service) Update(ctx context.Context, id, userID uuid.UUID, req UpdateRatingRequest) (*RatingDTO, error) {
	if err := validateRatingValue(req.RatingValue); err != nil {
		return nil, err
	}

	rating, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateValue(ctx, rating.ID, req.RatingValue); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rating")
	}
	return s.withRefs(ctx, rating.ID)
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	rating, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rating.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rating")
	}
	return nil
}

// loadOwned masks a foreign owner as NotFound so existence is not leaked.
func (s *service) loadOwned(ctx context.Context, id, userID uuid.UUID) (*models.Rating, error) {
	rating, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}
	if rating.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
	}
	return rating, nil
}

func (s *service) withRefs(ctx context.Context, id uuid.UUID) (*RatingDTO, error) {
	dto, err := s.repo.FindByIDWithRefs(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
	}
	return dto, nil
}
