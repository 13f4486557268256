package users

import (
	"context"
	"fmt"
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

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:usersrepo_%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
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
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (email);`).Error)
	require.NoError(t, db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_ratings_user_store ON ratings (user_id, store_id);`).Error)
	return db
}

func seedUser(t *testing.T, repo *Repository, name, email string, role enums.Role) *models.User {
	t.Helper()

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         name,
		Email:        email,
		Address:      "12 Test Street",
		PasswordHash: "$2a$10$hash",
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func seedStore(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Store {
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

func seedRating(t *testing.T, db *gorm.DB, user *models.User, store *models.Store, value int) *models.Rating {
	t.Helper()

	rating := &models.Rating{
		ID:          uuid.New(),
		RatingValue: value,
		UserID:      user.ID,
		StoreID:     store.ID,
	}
	require.NoError(t, db.Create(rating).Error)
	return rating
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created := seedUser(t, repo, "Frederick Remington Walsh", "fred@example.com", enums.RoleNormalUser)
	require.NotEqual(t, uuid.Nil, created.ID)

	byEmail, err := repo.FindByEmail(context.Background(), "fred@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frederick Remington Walsh", byID.Name)
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	seedUser(t, repo, "Frederick Remington Walsh", "dupe@example.com", enums.RoleNormalUser)

	_, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Gwendolyn Abernathy Price",
		Email:        "dupe@example.com",
		Address:      "56 Other Street",
		PasswordHash: "$2a$10$hash",
		Role:         enums.RoleNormalUser,
	})
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, "ux_users_email"))
}

func TestRepositoryListFiltersAndCounts(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	owner := seedUser(t, repo, "Gwendolyn Abernathy Price", "gwen@example.com", enums.RoleStoreOwner)
	rater := seedUser(t, repo, "Frederick Remington Walsh", "fred@example.com", enums.RoleNormalUser)

	store := seedStore(t, db, owner, "Corner Goods")
	seedRating(t, db, rater, store, 4)

	rows, err := repo.List(context.Background(), ListUsersQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uuid.UUID]UserWithCountsDTO{}
	for _, row := range rows {
		byID[row.ID] = row
	}
	assert.Equal(t, int64(1), byID[owner.ID].Counts.OwnedStores)
	assert.Equal(t, int64(0), byID[owner.ID].Counts.Ratings)
	assert.Equal(t, int64(1), byID[rater.ID].Counts.Ratings)

	filtered, err := repo.List(context.Background(), ListUsersQuery{Name: "gwendolyn"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, owner.ID, filtered[0].ID)

	filtered, err = repo.List(context.Background(), ListUsersQuery{Role: string(enums.RoleNormalUser)})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, rater.ID, filtered[0].ID)
}

func TestRepositoryListSortsByName(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	seedUser(t, repo, "Zelda Ostrander Quimby Moon", "z@example.com", enums.RoleNormalUser)
	seedUser(t, repo, "Abigail Thornton Vandermeer", "a@example.com", enums.RoleNormalUser)

	rows, err := repo.List(context.Background(), ListUsersQuery{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Abigail Thornton Vandermeer", rows[0].Name)

	rows, err = repo.List(context.Background(), ListUsersQuery{SortBy: "name", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "Zelda Ostrander Quimby Moon", rows[0].Name)
}

func TestRepositoryOwnedStoresAndRatings(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	owner := seedUser(t, repo, "Gwendolyn Abernathy Price", "gwen@example.com", enums.RoleStoreOwner)
	rater := seedUser(t, repo, "Frederick Remington Walsh", "fred@example.com", enums.RoleNormalUser)

	store := seedStore(t, db, owner, "Corner Goods")
	seedRating(t, db, rater, store, 5)

	stores, err := repo.ListOwnedStores(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, store.ID, stores[0].ID)
	assert.Equal(t, int64(1), stores[0].Counts.Ratings)

	ratings, err := repo.ListRatings(context.Background(), rater.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].RatingValue)
	assert.Equal(t, store.ID, ratings[0].Store.ID)
	assert.Equal(t, "Corner Goods", ratings[0].Store.Name)
}

func TestRepositoryUpdatePasswordHash(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, repo, "Frederick Remington Walsh", "fred@example.com", enums.RoleNormalUser)
	require.NoError(t, repo.UpdatePasswordHash(context.Background(), user.ID, "$2a$10$newhash"))

	reloaded, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$newhash", reloaded.PasswordHash)
}

func TestRepositoryDeleteCascades(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	owner := seedUser(t, repo, "Gwendolyn Abernathy Price", "gwen@example.com", enums.RoleStoreOwner)
	store := seedStore(t, db, owner, "Corner Goods")
	seedRating(t, db, owner, store, 3)

	require.NoError(t, repo.Delete(context.Background(), owner.ID))

	var storeCount, ratingCount int64
	require.NoError(t, db.Model(&models.Store{}).Count(&storeCount).Error)
	require.NoError(t, db.Model(&models.Rating{}).Count(&ratingCount).Error)
	assert.Equal(t, int64(0), storeCount)
	assert.Equal(t, int64(0), ratingCount)
}

func TestRepositoryCountAll(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	owner := seedUser(t, repo, "Gwendolyn Abernathy Price", "gwen@example.com", enums.RoleStoreOwner)
	rater := seedUser(t, repo, "Frederick Remington Walsh", "fred@example.com", enums.RoleNormalUser)
	store := seedStore(t, db, owner, "Corner Goods")
	seedRating(t, db, rater, store, 4)

	stats, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalStores)
	assert.Equal(t, int64(1), stats.TotalRatings)
}
