package dto

// SummarizeRequest 摘要请求
type SummarizeRequest struct {
	Text     string `json:"text" binding:"required"`
	Style    string `json:"style,omitempty" binding:"omitempty,oneof=plain bullet academic casual"`
	Length   string `json:"length,omitempty" binding:"omitempty,oneof=short medium long"`
	Language string `json:"language,omitempty"`
}

// SummarizeResponse 摘要响应
type SummarizeResponse struct {
	SummaryID int64  `json:"summary_id"`
	Output    string `json:"output"`
	ModelName string `json:"model_name"`
}

// SummaryListItem 摘要档案列表项
type SummaryListItem struct {
	ID           int64  `json:"id"`
	InputPreview string `json:"input_preview"`
	Output       string `json:"output"`
	ModelName    string `json:"model_name,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// ExtractResponse 文件解析响应
type ExtractResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Chars    int    `json:"chars"`
}

// HistoryItem 会话历史条目
type HistoryItem struct {
	Index        int    `json:"index"`
	InputPreview string `json:"input_preview"`
	Output       string `json:"output"`
	CreatedAt    string `json:"created_at"`
}
