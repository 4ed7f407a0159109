// Package validation содержит доменные валидаторы пользовательского ввода:
// адрес электронной почты, индонезийский мобильный номер и требования к паролю.
//
// Валидатор пароля возвращает полный список нарушенных правил, а не только булев флаг,
// чтобы клиент мог показать пользователю все ошибки сразу.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

	// Индонезийская мобильная нумерация: префикс +62 / 62 / 0, далее 8 и код оператора.
	phoneRe = regexp.MustCompile(`^(\+?62|0)8[1-9][0-9]{6,10}$`)
)

// passwordSymbols — допустимый набор специальных символов пароля.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// Тексты нарушений правил пароля. Возвращаются клиенту как есть.
const (
	MsgPasswordTooShort = "Password must be at least 8 characters long"
	MsgPasswordNoUpper  = "Password must contain at least one uppercase letter"
	MsgPasswordNoLower  = "Password must contain at least one lowercase letter"
	MsgPasswordNoDigit  = "Password must contain at least one number"
	MsgPasswordNoSymbol = "Password must contain at least one special character"
)

// IsValidEmail проверяет, что строка имеет форму адреса электронной почты.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPhone проверяет, что строка является индонезийским мобильным номером.
func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// PasswordResult содержит результат проверки пароля.
type PasswordResult struct {
	IsValid bool     // true, если все правила выполнены
	Errors  []string // Полный список текстов нарушенных правил
}

// ValidatePassword проверяет пароль по пяти правилам: длина не менее 8 символов,
// минимум одна заглавная и одна строчная буква, минимум одна цифра
// и минимум один символ из набора passwordSymbols.
func ValidatePassword(password string) PasswordResult {
	var errs []string

	if len(password) < 8 {
		errs = append(errs, MsgPasswordTooShort)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		errs = append(errs, MsgPasswordNoUpper)
	}
	if !hasLower {
		errs = append(errs, MsgPasswordNoLower)
	}
	if !hasDigit {
		errs = append(errs, MsgPasswordNoDigit)
	}
	if !hasSymbol {
		errs = append(errs, MsgPasswordNoSymbol)
	}

	return PasswordResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
