package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout 接口与导出文件使用的日期格式
const DateLayout = "2006-01-02"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator 返回共享的校验器实例
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateStruct 按 validate 标签校验结构体
func ValidateStruct(v interface{}) error {
	return Validator().Struct(v)
}

// ParseDate 解析 YYYY-MM-DD 格式日期（UTC），空串返回零值
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("error.date_invalid")
	}
	return t, nil
}

// ValidateUploadName 校验上传文件名
func ValidateUploadName(name string) error {
	if name == "" {
		return fmt.Errorf("error.upload_required")
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("error.upload_not_csv")
	}
	return nil
}
