package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/repository"
	"github.com/qs3c/sumr_go_server/internal/testutil"
)

func planConfig() *config.Config {
	return &config.Config{
		Plan: config.PlanConfig{
			Plans: map[string]config.Plan{
				"free":       {MonthlyLimit: 10, Model: "gpt-4o-mini", Price: 0},
				"pro":        {MonthlyLimit: 100, Model: "gpt-4o", Price: 9.9},
				"enterprise": {MonthlyLimit: 1000, Model: "gpt-4o", Price: 99},
			},
			WindowDays: 30,
		},
	}
}

func setupQuotaService(t *testing.T, db *gorm.DB) *QuotaService {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	return NewQuotaService(userRepo, summaryRepo, planConfig())
}

func TestQuotaService_Check_UnderLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)
	user := testutil.TestUser(t, db)

	// 9/10，还有一个名额
	for i := 0; i < 9; i++ {
		testutil.TestSummary(t, db, user.ID)
	}

	assert.NoError(t, service.Check(user.ID))
}

func TestQuotaService_Check_AtLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)
	user := testutil.TestUser(t, db)

	for i := 0; i < 10; i++ {
		testutil.TestSummary(t, db, user.ID)
	}

	err := service.Check(user.ID)
	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 10, quotaErr.Used)
	assert.Equal(t, 10, quotaErr.Limit)
}

func TestQuotaService_Check_OldRecordsOutsideWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)
	user := testutil.TestUser(t, db)

	// 窗口外的历史记录不占配额
	old := time.Now().AddDate(0, 0, -31)
	for i := 0; i < 10; i++ {
		testutil.TestSummary(t, db, user.ID, testutil.WithCreatedAt(old))
	}

	assert.NoError(t, service.Check(user.ID))
}

func TestQuotaService_Check_PlanUpgradeRaisesLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	userRepo := repository.NewUserRepository(db)
	service := setupQuotaService(t, db)
	user := testutil.TestUser(t, db)

	for i := 0; i < 10; i++ {
		testutil.TestSummary(t, db, user.ID)
	}
	require.Error(t, service.Check(user.ID))

	// 升级后同样的用量不再超限
	require.NoError(t, userRepo.UpdatePlan(user.ID, "pro"))
	assert.NoError(t, service.Check(user.ID))
}

func TestQuotaService_GetQuotaInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)
	user := testutil.TestUser(t, db)

	testutil.TestSummary(t, db, user.ID)
	testutil.TestSummary(t, db, user.ID)

	info, err := service.GetQuotaInfo(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", info.Plan)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 2, info.Used)
	assert.Equal(t, 8, info.Remaining)
	assert.Equal(t, 30, info.WindowDays)
}

func TestQuotaService_GetPlan_UnknownFallsBackToFree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)

	plan := service.GetPlan("nonexistent")
	assert.Equal(t, 10, plan.MonthlyLimit)
	assert.Equal(t, "gpt-4o-mini", plan.Model)
}

func TestQuotaService_IsValidPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)

	assert.True(t, service.IsValidPlan("free"))
	assert.True(t, service.IsValidPlan("pro"))
	assert.True(t, service.IsValidPlan("enterprise"))
	assert.False(t, service.IsValidPlan("platinum"))
}

func TestQuotaService_ListPlans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := setupQuotaService(t, db)

	plans := service.ListPlans()
	require.Len(t, plans, 3)
	assert.Equal(t, "free", plans[0].Name)
	assert.Equal(t, "pro", plans[1].Name)
	assert.Equal(t, "enterprise", plans[2].Name)
	assert.Equal(t, 100, plans[1].MonthlyLimit)
}
