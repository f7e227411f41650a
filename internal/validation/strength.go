package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordStrength はパスワードが満たす規則の数（0〜4）を返す。
// 規則: 8文字以上、大文字を含む、数字を含む、記号を含む。
func PasswordStrength(pw string) int {
	score := 0
	if utf8.RuneCountInString(pw) >= 8 {
		score++
	}
	if strings.ContainsFunc(pw, unicode.IsUpper) {
		score++
	}
	if strings.ContainsFunc(pw, unicode.IsDigit) {
		score++
	}
	if strings.ContainsFunc(pw, isSymbol) {
		score++
	}
	return score
}

// StrengthLabel はスコアに対応する表示ラベルを返す。
func StrengthLabel(score int) string {
	switch {
	case score <= 1:
		return "Weak"
	case score == 2:
		return "Fair"
	case score == 3:
		return "Good"
	default:
		return "Strong"
	}
}

// isSymbol は英数字・空白以外の文字を記号とみなす。
func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
