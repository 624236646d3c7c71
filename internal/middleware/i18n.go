// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medisure/medisure-backend/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get language from header
		lang := c.GetHeader("Accept-Language")

		// Parse language preference
		if lang != "" {
			// Handle cases like "zh-TW,zh;q=0.9,en;q=0.8"
			langs := strings.Split(lang, ",")
			if len(langs) > 0 {
				firstLang := strings.TrimSpace(strings.Split(langs[0], ";")[0])
				switch firstLang {
				case "zh-TW", "zh-Hant", "zh_TW", "zh":
					lang = "zh_TW"
				default:
					lang = firstLang
				}
			}
		}

		// Anything without a loaded locale file falls back to English
		if !isSupportedLanguage(lang) {
			lang = "en"
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}

func isSupportedLanguage(lang string) bool {
	for _, supported := range i18n.GetSupportedLanguages() {
		if supported == lang {
			return true
		}
	}
	return false
}
