package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const passwordMinLength = 8

// Набор спецсимволов — как в исходном API.
const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Пароль: мин 8 символов (не байт), буквы в обоих регистрах,
// >=1 цифра, >=1 спецсимвол.
func ValidPassword(s string) bool {
	if utf8.RuneCountInString(s) < passwordMinLength {
		return false
	}
	return upperRe.MatchString(s) &&
		lowerRe.MatchString(s) &&
		digitRe.MatchString(s) &&
		strings.ContainsAny(s, passwordSpecialChars)
}
