package emailhunt

import "strings"

// blacklistHostSuffixes are domains whose addresses are template residue,
// analytics, or error-reporting endpoints rather than published contacts.
var blacklistHostSuffixes = []string{
	"example.com",
	"example.org",
	"sentry.io",
	"wixpress.com",
	"sentry-next.wixpress.com",
	"mysite.com",
	"domain.com",
	"email.com",
	"yourdomain.com",
	"godaddy.com",
	"schema.org",
}

// blacklistLocalParts reject automated-sender mailboxes.
var blacklistLocalParts = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"do-not-reply",
	"mailer-daemon",
}

// blacklistSubstrings catch asset filenames and placeholder text that the
// RFC-shaped pattern accepts but which are never real addresses.
var blacklistSubstrings = []string{
	".png",
	".jpg",
	".jpeg",
	".gif",
	".webp",
	".svg",
	"sampleemail",
	"youremail",
	"emailaddress",
}

// Valid reports whether a matched address is a plausible published contact.
// It assumes the input already matched the extraction pattern and is
// lowercase.
func Valid(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]

	for _, sub := range blacklistSubstrings {
		if strings.Contains(email, sub) {
			return false
		}
	}
	for _, lp := range blacklistLocalParts {
		if strings.HasPrefix(local, lp) {
			return false
		}
	}
	for _, suffix := range blacklistHostSuffixes {
		if domain == suffix || strings.HasSuffix(domain, "."+suffix) {
			return false
		}
	}
	return true
}

// Filter drops blacklisted addresses, preserving order and every valid
// entry.
func Filter(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if Valid(e) {
			out = append(out, e)
		}
	}
	return out
}
