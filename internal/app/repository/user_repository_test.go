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

func setupUserRepo(t *testing.T) (UserRepository, *gorm.DB) {
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })
	return NewUserRepository(database), database
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupUserRepo(t)

	user := &model.User{
		Name:         "pizza diner",
		Email:        "diner@test.com",
		PasswordHash: "hashed",
		Roles:        []model.UserRole{{Role: model.RoleDiner}},
	}
	err := repo.Create(user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "diner@test.com", found.Email)
	require.Len(t, found.Roles, 1)
	assert.Equal(t, model.RoleDiner, found.Roles[0].Role)

	byEmail, err := repo.FindByEmail("diner@test.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, _ := setupUserRepo(t)

	first := &model.User{Name: "a", Email: "dup@test.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(first))

	second := &model.User{Name: "b", Email: "dup@test.com", PasswordHash: "h"}
	err := repo.Create(second)
	assert.Error(t, err)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupUserRepo(t)

	_, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo, _ := setupUserRepo(t)

	user := &model.User{Name: "before", Email: "update@test.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(user))

	user.Name = "after"
	user.Email = "after@test.com"
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Name)
	assert.Equal(t, "after@test.com", found.Email)
}

func TestUserRepository_ReplaceRoles(t *testing.T) {
	repo, _ := setupUserRepo(t)

	user := &model.User{
		Name:         "promoted",
		Email:        "roles@test.com",
		PasswordHash: "h",
		Roles:        []model.UserRole{{Role: model.RoleDiner}},
	}
	require.NoError(t, repo.Create(user))

	franchiseID := uint(5)
	err := repo.ReplaceRoles(user.ID, []model.UserRole{
		{Role: model.RoleDiner},
		{Role: model.RoleFranchisee, FranchiseID: &franchiseID},
	})
	require.NoError(t, err)

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.Len(t, found.Roles, 2)
	assert.Equal(t, model.RoleDiner, found.Roles[0].Role)
	assert.Equal(t, model.RoleFranchisee, found.Roles[1].Role)
	require.NotNil(t, found.Roles[1].FranchiseID)
	assert.Equal(t, uint(5), *found.Roles[1].FranchiseID)
}

func TestUserRepository_ReplaceRoles_Empty(t *testing.T) {
	repo, _ := setupUserRepo(t)

	user := &model.User{
		Name:         "stripped",
		Email:        "empty@test.com",
		PasswordHash: "h",
		Roles:        []model.UserRole{{Role: model.RoleAdmin}},
	}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.ReplaceRoles(user.ID, nil))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Roles)
}

func TestUserRepository_List(t *testing.T) {
	repo, _ := setupUserRepo(t)

	for i := 0; i < 12; i++ {
		user := &model.User{
			Name:         fmt.Sprintf("diner %02d", i),
			Email:        fmt.Sprintf("list%02d@test.com", i),
			PasswordHash: "h",
			Roles:        []model.UserRole{{Role: model.RoleDiner}},
		}
		require.NoError(t, repo.Create(user))
	}

	t.Run("first page has more", func(t *testing.T) {
		users, more, err := repo.List(0, 10, "")
		require.NoError(t, err)
		assert.Len(t, users, 10)
		assert.True(t, more)
	})

	t.Run("last page has no more", func(t *testing.T) {
		users, more, err := repo.List(1, 10, "")
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.False(t, more)
	})

	t.Run("name filter is case-insensitive substring", func(t *testing.T) {
		users, more, err := repo.List(0, 10, "DINER 03")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "diner 03", users[0].Name)
		assert.False(t, more)
	})

	t.Run("no match returns empty page", func(t *testing.T) {
		users, more, err := repo.List(0, 10, "nobody")
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.False(t, more)
	})
}

// Exactly limit rows in total must fill one page with more=false, not
// promise a second page.
func TestUserRepository_List_ExactLimitBoundary(t *testing.T) {
	repo, _ := setupUserRepo(t)

	for i := 0; i < 10; i++ {
		user := &model.User{
			Name:         fmt.Sprintf("boundary %02d", i),
			Email:        fmt.Sprintf("boundary%02d@test.com", i),
			PasswordHash: "h",
			Roles:        []model.UserRole{{Role: model.RoleDiner}},
		}
		require.NoError(t, repo.Create(user))
	}

	users, more, err := repo.List(0, 10, "")
	require.NoError(t, err)
	assert.Len(t, users, 10)
	assert.False(t, more)

	next, more, err := repo.List(1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.False(t, more)
}
