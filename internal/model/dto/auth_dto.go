package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录/注册响应（注册成功直接进入登录态）
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	AvatarURL   string     `json:"avatar_url"`
	Plan        string     `json:"plan"`
	QuotaInfo   *QuotaInfo `json:"quota_info,omitempty"`
	LastLoginAt string     `json:"last_login_at,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
}

// QuotaInfo 配额信息
type QuotaInfo struct {
	Plan       string `json:"plan"`
	Limit      int    `json:"limit"`       // 窗口内总额度
	Used       int    `json:"used"`        // 窗口内已用
	Remaining  int    `json:"remaining"`   // 剩余
	WindowDays int    `json:"window_days"` // 滚动窗口天数
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
}

// UpgradePlanRequest 套餐变更请求
type UpgradePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// PlanInfo 套餐信息（公开接口返回）
type PlanInfo struct {
	Name         string  `json:"name"`
	MonthlyLimit int     `json:"monthly_limit"`
	Model        string  `json:"model"`
	Price        float64 `json:"price"`
}
