package normalize

import (
	"regexp"
	"strings"
)

var (
	jpPostalRe = regexp.MustCompile(`〒?\s*(\d{3})\s*-?\s*(\d{4})`)
	krPostalRe = regexp.MustCompile(`\b(\d{5})\b`)
)

// PostalAddress applies locale-specific postal-code formatting before the
// generic Address cleaning.
//
//   - ja / ja-JP: the postal code is normalized to the 〒XXX-XXXX form.
//   - ko / ko-KR: a 5-digit postal code found in the trailing 20% of the
//     string is relocated to the front; elsewhere it is left alone.
//   - zh-TW and all other locales: original ordering is preserved.
func PostalAddress(addr, locale string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	switch baseLocale(locale) {
	case "ja":
		addr = formatJapanesePostal(addr)
	case "ko":
		addr = relocateKoreanPostal(addr)
	}
	return Address(addr)
}

func baseLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}

func formatJapanesePostal(addr string) string {
	loc := jpPostalRe.FindStringSubmatchIndex(addr)
	if loc == nil {
		return addr
	}
	code := "〒" + addr[loc[2]:loc[3]] + "-" + addr[loc[4]:loc[5]]
	rest := strings.TrimSpace(addr[:loc[0]] + " " + addr[loc[1]:])
	if rest == "" {
		return code
	}
	return code + " " + rest
}

func relocateKoreanPostal(addr string) string {
	locs := krPostalRe.FindAllStringIndex(addr, -1)
	if len(locs) == 0 {
		return addr
	}
	// Only the trailing 20% counts: a 5-digit run earlier in the string is
	// a street number, not a postal code.
	last := locs[len(locs)-1]
	threshold := len(addr) * 4 / 5
	if last[0] < threshold {
		return addr
	}
	code := addr[last[0]:last[1]]
	rest := strings.TrimSpace(strings.Trim(addr[:last[0]]+addr[last[1]:], " ,"))
	if rest == "" {
		return code
	}
	return code + " " + rest
}
