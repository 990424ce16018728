package i18n

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// SupportedLanguages 是从消息文件名得到的支持语言列表
var SupportedLanguages []string

// DefaultLanguage 请求未指定语言时使用
var DefaultLanguage = "en"

// Bundle 全局消息包，InitI18n 之前为 nil
var Bundle *i18n.Bundle

type localizerKey struct{}

type languageKey struct{}

// InitI18n 初始化 i18n 包
func InitI18n(filePaths []string, defaultLang string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	languages := make([]string, 0, len(filePaths))

	for _, filePath := range filePaths {
		file, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		// 解析文件名中的语言标签（如 en.toml -> "en"）
		languages = append(languages, extractLanguageFromPath(filePath))

		if _, err = bundle.ParseMessageFileBytes(file, filePath); err != nil {
			return nil, err
		}
	}

	SupportedLanguages = languages
	DefaultLanguage = defaultLang
	Bundle = bundle
	return bundle, nil
}

// 从文件路径中提取语言标签（假设文件名格式为 <lang>.toml）
func extractLanguageFromPath(filePath string) string {
	baseName := filepath.Base(filePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// WithLocalizer 把 Localizer 放入 context
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, localizer)
}

// WithLanguage 记录请求匹配到的语言
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

// LanguageFrom 返回请求语言，缺省为 DefaultLanguage
func LanguageFrom(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}

// LocalizerFrom 返回请求的 Localizer，缺省使用默认语言
func LocalizerFrom(ctx context.Context) *i18n.Localizer {
	if localizer, ok := ctx.Value(localizerKey{}).(*i18n.Localizer); ok && localizer != nil {
		return localizer
	}
	if Bundle == nil {
		return nil
	}
	return i18n.NewLocalizer(Bundle, DefaultLanguage)
}

// T 翻译消息 ID，未知 ID 原样返回
func T(ctx context.Context, key string, data map[string]interface{}) string {
	localizer := LocalizerFrom(ctx)
	if localizer == nil || key == "" {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return msg
}

// Translator 将 T 绑定到 ctx
func Translator(ctx context.Context) func(string) string {
	return func(key string) string {
		return T(ctx, key, nil)
	}
}
