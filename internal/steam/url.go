package steam

import "regexp"

var storeAppRe = regexp.MustCompile(`(?i)://store\.steampowered\.com/app/([0-9]+)`)

// AppIDFromText extracts the app id from the first storefront app URL
// embedded in arbitrary message text.
func AppIDFromText(text string) (string, bool) {
	m := storeAppRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
