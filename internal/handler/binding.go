package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"bikeshare-go/constant"
	"bikeshare-go/internal/apperrors"
	"bikeshare-go/internal/dto"
	"bikeshare-go/internal/service"
	"bikeshare-go/pkg/logging"
	"bikeshare-go/pkg/utils"
)

// bindError 把校验错误转换为 AppError，字段带 msg 标签时使用该消息 ID
func bindError(err error, req interface{}) *apperrors.AppError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.InvalidRequestErrorDefault()
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for _, e := range validationErrs {
		// dive 产生的字段名形如 Weekday[0]
		name, _, _ := strings.Cut(e.StructField(), "[")
		field, ok := t.FieldByName(name)
		if !ok {
			continue
		}
		if customMsg := field.Tag.Get("msg"); customMsg != "" {
			return apperrors.InvalidRequestError(customMsg)
		}
	}
	return apperrors.InvalidRequestErrorDefault()
}

// bindQuery 绑定查询参数，失败时记录日志并写入 c.Error
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		logging.Logger.Warn("Query binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
		)
		_ = c.Error(bindError(err, req))
		return false
	}
	return true
}

// bindFilter 绑定并转换筛选参数
func bindFilter(c *gin.Context) (service.Filter, bool) {
	var q dto.FilterQuery
	if !bindQuery(c, &q) {
		return service.Filter{}, false
	}

	start, err := utils.ParseDate(q.Start)
	if err != nil {
		_ = c.Error(apperrors.InvalidRequestError(err.Error()))
		return service.Filter{}, false
	}
	end, err := utils.ParseDate(q.End)
	if err != nil {
		_ = c.Error(apperrors.InvalidRequestError(err.Error()))
		return service.Filter{}, false
	}

	f := service.Filter{
		Start:    start,
		End:      end,
		DayType:  constant.DayType(q.DayType),
		Weekdays: q.Weekday,
		Weather:  q.Weather,
		UserType: constant.UserType(q.UserType),
	}
	if err := f.Validate(); err != nil {
		_ = c.Error(err)
		return service.Filter{}, false
	}
	return f, true
}
