package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qs3c/sumr_go_server/config"
	"github.com/qs3c/sumr_go_server/internal/model/dto"
	"github.com/qs3c/sumr_go_server/internal/pkg/extractor"
)

var (
	ErrFileTooLarge      = errors.New("文件过大")
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	ErrEmptyFile         = errors.New("文件内容为空")
)

// Extractor 外部文本提取服务边界
type Extractor interface {
	Extract(ctx context.Context, filename string, file io.Reader) (string, error)
}

type ExtractService struct {
	client Extractor
	cfg    *config.Config
}

func NewExtractService(client Extractor, cfg *config.Config) *ExtractService {
	return &ExtractService{
		client: client,
		cfg:    cfg,
	}
}

// Extract 从上传文件提取纯文本。文件先落盘到上传临时目录，
// txt/md 直接读取，其余格式交给外部提取服务处理。
// 落盘的目录不在请求内删除，过期后由后台清理任务回收。
func (s *ExtractService) Extract(ctx context.Context, filename string, file io.Reader, size int64) (*dto.ExtractResponse, error) {
	if s.cfg.Upload.MaxSize > 0 && size > s.cfg.Upload.MaxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !s.allowedExt(ext) {
		return nil, ErrUnsupportedFormat
	}

	spooled, err := s.spool(filename, file)
	if err != nil {
		return nil, err
	}
	defer spooled.Close()

	var text string
	switch ext {
	case ".txt", ".md":
		data, err := io.ReadAll(spooled)
		if err != nil {
			return nil, err
		}
		text = string(data)
	default:
		extracted, err := s.client.Extract(ctx, filename, spooled)
		if err != nil {
			if errors.Is(err, extractor.ErrUnsupportedFormat) {
				return nil, ErrUnsupportedFormat
			}
			return nil, err
		}
		text = extracted
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyFile
	}

	return &dto.ExtractResponse{
		Text:     text,
		Filename: filepath.Base(filename),
		Chars:    len([]rune(text)),
	}, nil
}

// spool 把上传内容写入独立的临时目录再回读，整个文件不滞留内存
func (s *ExtractService) spool(filename string, file io.Reader) (*os.File, error) {
	dir := s.cfg.Upload.TempDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	uploadDir, err := os.MkdirTemp(dir, "upload_")
	if err != nil {
		return nil, err
	}

	dst, err := os.Create(filepath.Join(uploadDir, filepath.Base(filename)))
	if err != nil {
		return nil, err
	}

	src := file
	if s.cfg.Upload.MaxSize > 0 {
		src = io.LimitReader(file, s.cfg.Upload.MaxSize)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		dst.Close()
		return nil, err
	}

	return dst, nil
}

func (s *ExtractService) allowedExt(ext string) bool {
	for _, allowed := range s.cfg.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
