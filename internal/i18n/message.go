package i18n

import (
	"golang.org/x/text/language"
)

// MatchLanguage 根据 Accept-Language 选出支持的语言
func MatchLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return DefaultLanguage
	}
	for _, tag := range tags {
		if lang := supported(tag); lang != "" {
			return lang
		}
	}
	return DefaultLanguage
}

// supported 精确匹配或按基础语言匹配（"id-ID" → "id"）
func supported(tag language.Tag) string {
	base, _ := tag.Base()
	for _, s := range SupportedLanguages {
		if s == tag.String() || s == base.String() {
			return s
		}
	}
	return ""
}
