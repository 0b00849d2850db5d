package shared

import "strings"

// CleanPhoneNumber normalizes a user-entered phone number.
// Arabic-Indic (U+0660..U+0669) and Eastern Arabic-Indic (U+06F0..U+06F9)
// digits are converted to ASCII, every other non-digit is dropped and a
// leading international "00" prefix is removed.
func CleanPhoneNumber(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		}
	}

	return strings.TrimPrefix(b.String(), "00")
}
