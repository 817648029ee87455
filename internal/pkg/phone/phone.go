package phone

import "strings"

// Normalize strips everything but ASCII digits so the same number typed as
// "+90 555 123 4567" and "905551234567" compares equal.
func Normalize(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
