package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/internal/pkg/extractor"
	"github.com/qs3c/sumr_go_server/internal/pkg/response"
	"github.com/qs3c/sumr_go_server/internal/service"
)

type UploadHandler struct {
	extractService *service.ExtractService
}

func NewUploadHandler(extractService *service.ExtractService) *UploadHandler {
	return &UploadHandler{
		extractService: extractService,
	}
}

// Extract 从上传文件提取纯文本，提取结果由前端填入摘要请求
// POST /api/v1/summaries/extract
func (h *UploadHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传文件")
		return
	}
	defer file.Close()

	resp, err := h.extractService.Extract(c.Request.Context(), header.Filename, file, header.Size)
	if err != nil {
		var extractionErr *extractor.ExtractionError
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUnsupportedFormat):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrEmptyFile):
			response.ParamError(c, err.Error())
		case errors.As(err, &extractionErr):
			// 提取服务的失败原因原样透传
			response.GatewayError(c, extractionErr.Error())
		default:
			response.ServerError(c, "文本提取失败")
		}
		return
	}

	response.Success(c, resp)
}
