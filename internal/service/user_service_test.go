package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/repository"
	"github.com/qs3c/sumr_go_server/internal/testutil"
)

func setupUserService(t *testing.T, db *gorm.DB) *UserService {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	quotaService := NewQuotaService(userRepo, summaryRepo, planConfig())

	return NewUserService(userRepo, quotaService, nil, planConfig())
}

func TestUserService_GetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupUserService(t, db)
	user := testutil.TestUser(t, db, testutil.WithUsername("alice"))
	testutil.TestSummary(t, db, user.ID)

	info, err := service.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	require.NotNil(t, info.QuotaInfo)
	assert.Equal(t, 1, info.QuotaInfo.Used)
	assert.Equal(t, 10, info.QuotaInfo.Limit)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupUserService(t, db)

	_, err := service.GetProfile(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile_UsernameTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupUserService(t, db)
	testutil.TestUser(t, db, testutil.WithUsername("alice"))
	bob := testutil.TestUser(t, db, testutil.WithUsername("bob"))

	newName := "alice"
	_, err := service.UpdateProfile(bob.ID, &dto.UpdateProfileRequest{Username: &newName})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserService_UpgradePlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupUserService(t, db)
	user := testutil.TestUser(t, db)

	// 变更后立即读到新套餐
	info, err := service.UpgradePlan(user.ID, "pro")
	require.NoError(t, err)
	assert.Equal(t, "pro", info.Plan)
	require.NotNil(t, info.QuotaInfo)
	assert.Equal(t, 100, info.QuotaInfo.Limit)

	userRepo := repository.NewUserRepository(db)
	stored, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", stored.Plan)
}

func TestUserService_UpgradePlan_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupUserService(t, db)
	user := testutil.TestUser(t, db)

	_, err := service.UpgradePlan(user.ID, "platinum")
	assert.ErrorIs(t, err, ErrInvalidPlan)

	// 套餐保持不变
	userRepo := repository.NewUserRepository(db)
	stored, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", stored.Plan)
}

func TestUserService_UpgradePlan_Downgrade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupUserService(t, db)
	user := testutil.TestUser(t, db, testutil.WithPlan("pro"))

	info, err := service.UpgradePlan(user.ID, "free")
	require.NoError(t, err)
	assert.Equal(t, "free", info.Plan)
	assert.Equal(t, 10, info.QuotaInfo.Limit)
}
