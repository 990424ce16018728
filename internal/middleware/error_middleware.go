package middleware

import (
	"errors"
	"net/http"

	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/i18n"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GlobalErrorMiddleware 全局错误中间件，消息 ID 按请求语言翻译
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()
		for _, err := range c.Errors {
			var appErr *apperrors.AppError
			if errors.As(err.Err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					logging.Logger.Error("Request failed",
						zap.String("path", c.Request.URL.Path),
						zap.String("request_id", GetRequestID(c)),
						zap.Error(appErr),
					)
				}
				c.AbortWithStatusJSON(appErr.Code, response.ErrorFromAppError(appErr, i18n.Translator(ctx)))
				return
			}
		}

		// 默认处理未定义的错误
		logging.Logger.Error("Unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.Error(c.Errors.Last().Err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(i18n.T(ctx, "error.system", nil)))
	}
}
