package repository

import (
	"fmt"
	"testing"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFranchiseRepo(t *testing.T) (FranchiseRepository, *gorm.DB) {
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })
	return NewFranchiseRepository(database), database
}

func createTestUser(t *testing.T, database *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "franchise admin",
		Email:        email,
		PasswordHash: "h",
		Roles:        []model.UserRole{{Role: model.RoleDiner}},
	}
	require.NoError(t, database.Create(user).Error)
	return user
}

func TestFranchiseRepository_CreateAndFind(t *testing.T) {
	repo, database := setupFranchiseRepo(t)
	admin := createTestUser(t, database, "owner@test.com")

	franchise := &model.Franchise{
		Name:   "pizzaPocket",
		Admins: []model.User{*admin},
	}
	require.NoError(t, repo.Create(franchise))
	assert.NotZero(t, franchise.ID)

	found, err := repo.FindByID(franchise.ID)
	require.NoError(t, err)
	assert.Equal(t, "pizzaPocket", found.Name)
	require.Len(t, found.Admins, 1)
	assert.Equal(t, "owner@test.com", found.Admins[0].Email)
}

func TestFranchiseRepository_Create_DuplicateName(t *testing.T) {
	repo, _ := setupFranchiseRepo(t)

	require.NoError(t, repo.Create(&model.Franchise{Name: "unique pizza"}))
	err := repo.Create(&model.Franchise{Name: "unique pizza"})
	assert.Error(t, err)
}

func TestFranchiseRepository_FindByAdminID(t *testing.T) {
	repo, database := setupFranchiseRepo(t)
	owner := createTestUser(t, database, "multi@test.com")
	other := createTestUser(t, database, "other@test.com")

	require.NoError(t, repo.Create(&model.Franchise{Name: "first", Admins: []model.User{*owner}}))
	require.NoError(t, repo.Create(&model.Franchise{Name: "second", Admins: []model.User{*owner}}))
	require.NoError(t, repo.Create(&model.Franchise{Name: "third", Admins: []model.User{*other}}))

	franchises, err := repo.FindByAdminID(owner.ID)
	require.NoError(t, err)
	require.Len(t, franchises, 2)
	assert.Equal(t, "first", franchises[0].Name)
	assert.Equal(t, "second", franchises[1].Name)

	none, err := repo.FindByAdminID(9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFranchiseRepository_List(t *testing.T) {
	repo, _ := setupFranchiseRepo(t)

	for i := 0; i < 11; i++ {
		require.NoError(t, repo.Create(&model.Franchise{Name: fmt.Sprintf("chain %02d", i)}))
	}

	t.Run("pagination", func(t *testing.T) {
		franchises, more, err := repo.List(0, 10, "")
		require.NoError(t, err)
		assert.Len(t, franchises, 10)
		assert.True(t, more)

		franchises, more, err = repo.List(1, 10, "")
		require.NoError(t, err)
		assert.Len(t, franchises, 1)
		assert.False(t, more)
	})

	t.Run("name filter", func(t *testing.T) {
		franchises, more, err := repo.List(0, 10, "CHAIN 07")
		require.NoError(t, err)
		require.Len(t, franchises, 1)
		assert.Equal(t, "chain 07", franchises[0].Name)
		assert.False(t, more)
	})
}

func TestFranchiseRepository_Delete(t *testing.T) {
	repo, database := setupFranchiseRepo(t)
	owner := createTestUser(t, database, "doomed@test.com")

	franchise := &model.Franchise{Name: "closing down", Admins: []model.User{*owner}}
	require.NoError(t, repo.Create(franchise))
	require.NoError(t, repo.CreateStore(&model.Store{FranchiseID: franchise.ID, Name: "SLC"}))
	require.NoError(t, database.Create(&model.UserRole{
		UserID:      owner.ID,
		Role:        model.RoleFranchisee,
		FranchiseID: &franchise.ID,
	}).Error)

	require.NoError(t, repo.Delete(franchise.ID))

	_, err := repo.FindByID(franchise.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var storeCount int64
	database.Model(&model.Store{}).Where("franchise_id = ?", franchise.ID).Count(&storeCount)
	assert.Zero(t, storeCount)

	var roleCount int64
	database.Model(&model.UserRole{}).
		Where("role = ? AND franchise_id = ?", model.RoleFranchisee, franchise.ID).
		Count(&roleCount)
	assert.Zero(t, roleCount)
}

func TestFranchiseRepository_Delete_NotFound(t *testing.T) {
	repo, _ := setupFranchiseRepo(t)

	err := repo.Delete(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFranchiseRepository_Stores(t *testing.T) {
	repo, _ := setupFranchiseRepo(t)

	franchise := &model.Franchise{Name: "stores inc"}
	require.NoError(t, repo.Create(franchise))

	store := &model.Store{FranchiseID: franchise.ID, Name: "NYC"}
	require.NoError(t, repo.CreateStore(store))
	assert.NotZero(t, store.ID)

	found, err := repo.FindStore(franchise.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "NYC", found.Name)

	t.Run("find rejects wrong franchise", func(t *testing.T) {
		_, err := repo.FindStore(franchise.ID+1, store.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("delete rejects wrong franchise", func(t *testing.T) {
		err := repo.DeleteStore(franchise.ID+1, store.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("delete removes store", func(t *testing.T) {
		require.NoError(t, repo.DeleteStore(franchise.ID, store.ID))
		_, err := repo.FindStore(franchise.ID, store.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
