package session

import (
	"errors"
	"sync"
	"time"
)

// ErrIndexOutOfRange 删除历史时下标越界，列表保持不变
var ErrIndexOutOfRange = errors.New("历史记录下标越界")

// Entry 会话历史条目
type Entry struct {
	CreatedAt    time.Time
	InputPreview string
	Output       string
}

// History 会话内的历史列表。纯内存、跟随会话销毁，不跨进程共享。
type History struct {
	mu      sync.Mutex
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

// Append 追加一条历史（最新的在最后）
func (h *History) Append(entry Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
}

// DeleteAt 按下标删除；下标非法时返回 ErrIndexOutOfRange，列表不变
func (h *History) DeleteAt(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.entries) {
		return ErrIndexOutOfRange
	}

	h.entries = append(h.entries[:index], h.entries[index+1:]...)
	return nil
}

// List 返回历史快照，追加顺序保持不变
func (h *History) List() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len 当前条目数
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
