package ratings

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/storerate/storerate-backend/pkg/db"
	"github.com/storerate/storerate-backend/pkg/db/models"
	"github.com/storerate/storerate-backend/pkg/enums"
)

func setupRatingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:ratingsrepo_%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  address TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	stores := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at DATETIME,
  updated_at DATETIME
);`
	ratings := `
CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY,
  rating_value INTEGER NOT NULL,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(stores).Error)
	require.NoError(t, db.Exec(ratings).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_ratings_user_store ON ratings (user_id, store_id);`).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Address:      "12 Test Street",
		PasswordHash: "$2a$10$hash",
		Role:         enums.RoleNormalUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newStore(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Store {
	t.Helper()

	store := &models.Store{
		ID:      uuid.New(),
		Name:    name,
		Address: "34 Market Row",
		OwnerID: owner.ID,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	user := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	store := newStore(t, db, user, "Corner Goods")

	rating, err := repo.Create(context.Background(), CreateRatingDTO{
		RatingValue: 4,
		UserID:      user.ID,
		StoreID:     store.ID,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, rating.ID)

	loaded, err := repo.FindByUserAndStore(context.Background(), user.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.ID, loaded.ID)
	assert.Equal(t, 4, loaded.RatingValue)
}

func TestRepositoryCreateDuplicatePair(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	user := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	store := newStore(t, db, user, "Corner Goods")

	_, err := repo.Create(context.Background(), CreateRatingDTO{RatingValue: 4, UserID: user.ID, StoreID: store.ID})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), CreateRatingDTO{RatingValue: 5, UserID: user.ID, StoreID: store.ID})
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, "ux_ratings_user_store"))
}

func TestRepositoryCreateRaceSingleWinner(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps sqlite from returning table-lock errors under
	// concurrent writers; the unique index still decides the winner.
	sqlDB.SetMaxOpenConns(1)

	user := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	store := newStore(t, db, user, "Corner Goods")

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, value := range []int{3, 5} {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, err := repo.Create(context.Background(), CreateRatingDTO{
				RatingValue: value,
				UserID:      user.ID,
				StoreID:     store.ID,
			})
			results <- err
		}(value)
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		assert.True(t, pkgdb.IsUniqueViolation(err, "ux_ratings_user_store"), "unexpected error: %v", err)
		lost++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Where("user_id = ? AND store_id = ?", user.ID, store.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryFindWithRefs(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	user := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	store := newStore(t, db, user, "Corner Goods")

	rating, err := repo.Create(context.Background(), CreateRatingDTO{RatingValue: 3, UserID: user.ID, StoreID: store.ID})
	require.NoError(t, err)

	dto, err := repo.FindByIDWithRefs(context.Background(), rating.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.User)
	require.NotNil(t, dto.Store)
	assert.Equal(t, "fred@example.com", dto.User.Email)
	assert.Equal(t, "Corner Goods", dto.Store.Name)
	assert.Equal(t, 3, dto.RatingValue)

	dto, err = repo.FindByUserAndStoreWithRefs(context.Background(), user.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.ID, dto.ID)

	_, err = repo.FindByUserAndStoreWithRefs(context.Background(), user.ID, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListsNewestFirst(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	userOne := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	userTwo := newUser(t, db, "Abigail Thornton Vandermeer", "abby@example.com")
	store := newStore(t, db, userOne, "Corner Goods")

	now := time.Now().UTC()
	older := &models.Rating{ID: uuid.New(), RatingValue: 5, UserID: userOne.ID, StoreID: store.ID, CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour)}
	newer := &models.Rating{ID: uuid.New(), RatingValue: 2, UserID: userTwo.ID, StoreID: store.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)

	byStore, err := repo.ListByStore(context.Background(), store.ID)
	require.NoError(t, err)
	require.Len(t, byStore, 2)
	assert.Equal(t, newer.ID, byStore[0].ID)

	byUser, err := repo.ListByUser(context.Background(), userOne.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, older.ID, byUser[0].ID)
}

func TestRepositoryUpdateValue(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	user := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	store := newStore(t, db, user, "Corner Goods")

	rating, err := repo.Create(context.Background(), CreateRatingDTO{RatingValue: 2, UserID: user.ID, StoreID: store.ID})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateValue(context.Background(), rating.ID, 5))

	reloaded, err := repo.FindByID(context.Background(), rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.RatingValue)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupRatingsTestDB(t)
	repo := NewRepository(db)

	user := newUser(t, db, "Frederick Remington Walsh", "fred@example.com")
	store := newStore(t, db, user, "Corner Goods")

	rating, err := repo.Create(context.Background(), CreateRatingDTO{RatingValue: 2, UserID: user.ID, StoreID: store.ID})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), rating.ID))

	_, err = repo.FindByID(context.Background(), rating.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
