package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	invalid := []string{"", "plain", "a@b", "a b@c.de", "@example.com"}

	for _, s := range valid {
		assert.True(t, domain.ValidEmail(s), "email %q", s)
	}
	for _, s := range invalid {
		assert.False(t, domain.ValidEmail(s), "email %q", s)
	}
}

func TestValidPassword(t *testing.T) {
	valid := []string{"Str0ng!Pass", `Aa1"bbbb`, "Aa1!ééйй"}
	invalid := []string{
		"Sh0rt!a",      // меньше 8
		"Aa1!ééé",      // 7 символов: минимум считается в рунах, не в байтах
		"alllower1!",   // нет верхнего регистра
		"ALLUPPER1!",   // нет нижнего
		"NoDigits!!aa", // нет цифры
		"NoSpecial1aA", // нет спецсимвола
	}

	for _, s := range valid {
		assert.True(t, domain.ValidPassword(s), "password %q", s)
	}
	for _, s := range invalid {
		assert.False(t, domain.ValidPassword(s), "password %q", s)
	}
}
