package middleware

import (
	"github.com/gin-gonic/gin"

	thirdPartyI18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"bikeshare-go/internal/i18n"
)

func I18nMiddleware(bundle *thirdPartyI18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.MatchLanguage(c.GetHeader("Accept-Language"))
		localizer := thirdPartyI18n.NewLocalizer(bundle, lang)
		ctx := i18n.WithLanguage(c.Request.Context(), lang)
		c.Request = c.Request.WithContext(i18n.WithLocalizer(ctx, localizer))
		c.Header("Content-Language", lang)
		c.Next()
	}
}
