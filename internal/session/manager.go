package session

import (
	"sync"

	"github.com/qs3c/sumr_go_server/internal/model"
)

// Manager 按用户维护当前交互会话。进程内状态，重启即清空。
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Start 登录成功后建立会话。同一用户重复登录时直接替换旧会话
// （旧历史随之丢弃）。
func (m *Manager) Start(user *model.User) *Session {
	sess := New()
	_ = sess.Login(user)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[user.ID] = sess
	return sess
}

// StartSignup 注册流程的会话：从 signing_up 起步，注册通过后
// 直接进入登录态，不要求再登录一次
func (m *Manager) StartSignup(user *model.User) *Session {
	sess := New()
	_ = sess.BeginSignup()
	_ = sess.CompleteSignup(user)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[user.ID] = sess
	return sess
}

// Get 获取用户的当前会话，没有则返回 nil
func (m *Manager) Get(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

// GetOrStart 取当前会话；服务重启后 Token 仍有效的场景下惰性重建
func (m *Manager) GetOrStart(user *model.User) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[user.ID]; ok {
		return sess
	}
	sess := New()
	_ = sess.Login(user)
	m.sessions[user.ID] = sess
	return sess
}

// End 登出：迁移会话状态并移除
func (m *Manager) End(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[userID]; ok {
		_ = sess.Logout()
		delete(m.sessions, userID)
	}
}

// Count 活跃会话数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
