package emailhunt

import (
	"strings"
	"time"

	"github.com/miekg/dns"
)

var mxResolvers = []string{"8.8.8.8:53", "1.1.1.1:53"}

// hasMX reports whether the address's domain publishes MX records. Used
// only when verification is enabled; resolver failures count as
// unverifiable, not invalid, so the caller decides what to do with a false.
func hasMX(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	domain := strings.TrimSpace(email[at+1:])
	if domain == "" {
		return false
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: 3 * time.Second}
	for _, server := range mxResolvers {
		resp, _, err := client.Exchange(msg, server)
		if err != nil {
			continue
		}
		if resp.Rcode == dns.RcodeSuccess && len(resp.Answer) > 0 {
			return true
		}
	}
	return false
}
