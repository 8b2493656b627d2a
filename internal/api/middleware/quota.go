package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/sumr_go_server/internal/pkg/response"
	"github.com/qs3c/sumr_go_server/internal/service"
)

// QuotaCheck 配额预检查中间件。权威检查在 SummaryService 内
// 持锁执行，这里只用于提前拒绝明显超额的请求。
func QuotaCheck(quotaService *service.QuotaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		if err := quotaService.Check(userID); err != nil {
			var quotaErr *service.QuotaExceededError
			if errors.As(err, &quotaErr) {
				response.QuotaError(c, quotaErr.Error())
			} else {
				response.ServerError(c, "配额检查失败")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
