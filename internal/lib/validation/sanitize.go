package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizePolicy = bluemonday.StrictPolicy()

// Sanitize удаляет разметку из свободного текста пользователя.
//
// Применяется ко всем строковым полям, которые вводит пользователь
// (имя, телефон, аллергии, текст отзыва), перед сохранением в базу.
func Sanitize(input string) string {
	return sanitizePolicy.Sanitize(strings.TrimSpace(input))
}
