// Package emailhunt discovers public contact emails on the external
// websites of enriched businesses: bounded-concurrency batches, per-host
// result caching, and a blacklist filter over what the pages expose.
package emailhunt

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

var emailRe = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

// EmailsFromHTML scans a rendered document for addresses in visible text
// and in mailto links, case-normalizing matches into a sorted set. Script
// and style bodies are skipped; an address only present in minified JS is
// not a published contact.
func EmailsFromHTML(doc string) []string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		// Even broken markup parses into a tree; a hard failure means
		// there is nothing worth scanning.
		return nil
	}

	set := make(map[string]struct{})
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key == "href" && strings.HasPrefix(strings.ToLower(attr.Val), "mailto:") {
						addMatches(set, strings.TrimPrefix(attr.Val, "mailto:"))
					}
				}
			}
		case html.TextNode:
			addMatches(set, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func addMatches(set map[string]struct{}, text string) {
	// mailto links may carry a subject query; the pattern stops at it.
	for _, m := range emailRe.FindAllString(text, -1) {
		set[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
}
