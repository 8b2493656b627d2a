package session

import (
	"errors"
	"sync"

	"github.com/qs3c/sumr_go_server/internal/model"
)

// 会话状态
const (
	StateLoggedOut = "logged_out"
	StateSigningUp = "signing_up"
	StateLoggedIn  = "logged_in"
)

var (
	// ErrNotLoggedIn 摘要、配额、套餐变更等动作只允许登录态执行
	ErrNotLoggedIn = errors.New("当前未登录")
	// ErrInvalidTransition 非法的状态迁移
	ErrInvalidTransition = errors.New("非法的会话状态迁移")
)

// Session 单个交互会话的状态机：logged_out / signing_up / logged_in。
// 所有迁移都显式校验当前状态，不靠外部全局变量。
type Session struct {
	mu      sync.Mutex
	state   string
	user    *model.User
	history *History
}

func New() *Session {
	return &Session{
		state:   StateLoggedOut,
		history: NewHistory(),
	}
}

// State 当前状态
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login logged_out -> logged_in，携带已验证的用户
func (s *Session) Login(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoggedOut {
		return ErrInvalidTransition
	}
	s.state = StateLoggedIn
	s.user = user
	return nil
}

// BeginSignup logged_out -> signing_up
func (s *Session) BeginSignup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoggedOut {
		return ErrInvalidTransition
	}
	s.state = StateSigningUp
	return nil
}

// CompleteSignup signing_up -> logged_in。注册通过后直接进入登录态，
// 不要求再走一次登录。
func (s *Session) CompleteSignup(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSigningUp {
		return ErrInvalidTransition
	}
	s.state = StateLoggedIn
	s.user = user
	return nil
}

// CancelSignup signing_up -> logged_out
func (s *Session) CancelSignup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSigningUp {
		return ErrInvalidTransition
	}
	s.state = StateLoggedOut
	return nil
}

// Logout logged_in -> logged_out，丢弃用户和整个历史列表
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoggedIn {
		return ErrInvalidTransition
	}
	s.state = StateLoggedOut
	s.user = nil
	s.history = NewHistory()
	return nil
}

// User 登录态下返回当前用户，否则返回 ErrNotLoggedIn
func (s *Session) User() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoggedIn || s.user == nil {
		return nil, ErrNotLoggedIn
	}
	return s.user, nil
}

// SetUser 刷新会话缓存的用户（套餐变更后立即可见）
func (s *Session) SetUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoggedIn {
		return ErrNotLoggedIn
	}
	s.user = user
	return nil
}

// History 当前会话的历史列表
func (s *Session) History() *History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}
