package emailutil

import "strings"

// LocalPart returns the part before the @, or "" when the address has
// no local part.
func LocalPart(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return email[:at]
}
