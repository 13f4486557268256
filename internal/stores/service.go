package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storerate/storerate-backend/pkg/db/models"
	pkgerrors "github.com/storerate/storerate-backend/pkg/errors"
)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByIDWithStats(ctx context.Context, id uuid.UUID) (*StoreWithStatsDTO, error)
	List(ctx context.Context, q ListStoresQuery) ([]StoreWithStatsDTO, error)
	ListRatings(ctx context.Context, storeID uuid.UUID) ([]StoreRatingDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithStatsDTO, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, req CreateStoreRequest) (*StoreWithStatsDTO, error)
	List(ctx context.Context, q ListStoresQuery) ([]StoreWithStatsDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*StoreDetailDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithStatsDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*StoreWithStatsDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  storeRepository
	users usersRepository
}

// NewService builds a store service with the provided repositories.
func NewService(repo storeRepository, users usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) Create(ctx context.Context, req CreateStoreRequest) (*StoreWithStatsDTO, error) {
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ownerId must be a valid uuid")
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owner")
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}

	return s.statsByID(ctx, store.ID)
}

func (s *service) List(ctx context.Context, q ListStoresQuery) ([]StoreWithStatsDTO, error) {
	if _, ok := SortColumn(q.SortBy); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort column")
	}
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StoreDetailDTO, error) {
	stats, err := s.statsByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ratings, err := s.repo.ListRatings(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store ratings")
	}

	return &StoreDetailDTO{
		StoreWithStatsDTO: *stats,
		Ratings:           ratings,
	}, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreWithStatsDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned stores")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*StoreWithStatsDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	if req.Name != nil {
		store.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		store.Address = strings.TrimSpace(*req.Address)
	}
	if req.OwnerID != nil {
		ownerID, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ownerId must be a valid uuid")
		}
		if _, err := s.users.FindByID(ctx, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owner")
		}
		store.OwnerID = ownerID
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return s.statsByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

func (s *service) statsByID(ctx context.Context, id uuid.UUID) (*StoreWithStatsDTO, error) {
	stats, err := s.repo.FindByIDWithStats(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return stats, nil
}
