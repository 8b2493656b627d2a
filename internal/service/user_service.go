package service

import (
	"errors"
	"io"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/model"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/oss"
	"github.com/qs3c/sumr_go_server/internal/repository"
)

var ErrInvalidPlan = errors.New("无效的套餐名称")

type UserService struct {
	userRepo     *repository.UserRepository
	quotaService *QuotaService
	ossClient    *oss.Client
	cfg          *config.Config
}

func NewUserService(userRepo *repository.UserRepository, quotaService *QuotaService, ossClient *oss.Client, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:     userRepo,
		quotaService: quotaService,
		ossClient:    ossClient,
		cfg:          cfg,
	}
}

// GetProfile 获取用户详情（带配额信息）
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.buildUserInfoWithQuota(user)
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 检查用户名是否已被占用
	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = *req.Username
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.buildUserInfoWithQuota(user)
}

// UpgradePlan 套餐变更。单条 UPDATE 完成，更新后重新读取用户，
// 保证本会话内立即看到新套餐（read-your-writes）。
func (s *UserService) UpgradePlan(userID int64, planName string) (*dto.UserInfo, error) {
	if !s.quotaService.IsValidPlan(planName) {
		return nil, ErrInvalidPlan
	}

	if err := s.userRepo.UpdatePlan(userID, planName); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	return s.buildUserInfoWithQuota(user)
}

// UploadAvatar 上传用户头像到 OSS
func (s *UserService) UploadAvatar(userID int64, file io.Reader, filename string) (string, error) {
	if s.ossClient == nil {
		return "", errors.New("OSS 客户端未配置")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	avatarURL, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"avatar_url": avatarURL,
	}); err != nil {
		return "", err
	}

	return avatarURL, nil
}

func (s *UserService) buildUserInfoWithQuota(user *model.User) (*dto.UserInfo, error) {
	info := buildUserInfo(user)

	quotaInfo, err := s.quotaService.GetQuotaInfo(user.ID)
	if err != nil {
		return nil, err
	}
	info.QuotaInfo = quotaInfo

	return info, nil
}
