package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qs3c/sumr_go_server/config"
)

// GatewayError 摘要网关调用失败，错误原样透传给调用方
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("summarizer gateway error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("summarizer gateway error: %s", e.Message)
}

// Options 摘要风格选项
type Options struct {
	Style    string // plain / bullet / academic / casual
	Length   string // short / medium / long
	Language string // 输出语言，空则跟随原文
}

// Client OpenAI 兼容接口的 HTTP 客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.SummarizerConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize 调用网关生成摘要
func (c *Client) Summarize(ctx context.Context, text, modelName string, opts Options) (string, error) {
	reqBody := chatRequest{
		Model: modelName,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(opts)},
			{Role: "user", Content: text},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GatewayError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", &GatewayError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GatewayError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &GatewayError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if chatResp.Error != nil {
		return "", &GatewayError{StatusCode: resp.StatusCode, Message: chatResp.Error.Message}
	}
	if len(chatResp.Choices) == 0 {
		return "", &GatewayError{StatusCode: resp.StatusCode, Message: "empty choices in response"}
	}

	return chatResp.Choices[0].Message.Content, nil
}

func buildSystemPrompt(opts Options) string {
	var b strings.Builder
	b.WriteString("You are a summarization assistant. Summarize the user's text.")

	switch opts.Style {
	case "bullet":
		b.WriteString(" Use bullet points.")
	case "academic":
		b.WriteString(" Use a formal academic tone.")
	case "casual":
		b.WriteString(" Use a casual tone.")
	}

	switch opts.Length {
	case "short":
		b.WriteString(" Keep it under 3 sentences.")
	case "long":
		b.WriteString(" Provide a detailed summary.")
	default:
		b.WriteString(" Keep it concise.")
	}

	if opts.Language != "" {
		b.WriteString(" Respond in " + opts.Language + ".")
	}

	return b.String()
}
