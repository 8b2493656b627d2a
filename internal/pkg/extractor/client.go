package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/qs3c/sumr_go_server/config"
)

var (
	// ErrUnsupportedFormat 提取服务不支持该文件格式
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
)

// ExtractionError 提取服务处理失败
type ExtractionError struct {
	StatusCode int
	Message    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (status %d): %s", e.StatusCode, e.Message)
}

// Client 外部文本提取服务的 HTTP 客户端（PDF/DOCX/图片/音频 -> 纯文本）
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.ExtractorConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Extract 上传文件内容并取回提取出的纯文本
func (c *Client) Extract(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &ExtractionError{Message: err.Error()}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &ExtractionError{Message: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return "", &ExtractionError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &buf)
	if err != nil {
		return "", &ExtractionError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ExtractionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ExtractionError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	// 415 表示提取服务明确拒绝该格式
	if resp.StatusCode == http.StatusUnsupportedMediaType {
		return "", ErrUnsupportedFormat
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ExtractionError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var extractResp extractResponse
	if err := json.Unmarshal(body, &extractResp); err != nil {
		return "", &ExtractionError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if extractResp.Error != "" {
		return "", &ExtractionError{StatusCode: resp.StatusCode, Message: extractResp.Error}
	}

	return extractResp.Text, nil
}
