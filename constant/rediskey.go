package constant

import (
	"fmt"
)

// 常量定义
const (
	BasePrefix = "bikeshare:"
	Separator  = ":"
)

// Redis 键模板
const (
	ViewCache = BasePrefix + "view" + Separator + "%s" + Separator + "%s" + Separator + "%s" // bikeshare:view:<视图>:<数据集指纹>:<筛选摘要>
)

// GetViewCacheKey 生成视图缓存键（格式：bikeshare:view:<view>:<fingerprint>:<digest>）
func GetViewCacheKey(view, fingerprint, digest string) string {
	return fmt.Sprintf(ViewCache, view, fingerprint, digest)
}
