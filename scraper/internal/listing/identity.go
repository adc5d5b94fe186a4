package listing

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// Identity resolution sources, in order. Names collide far more often than
// identifiers, so dedup is identity-first, never name-first.
var (
	dataParamRe     = regexp.MustCompile(`!1s([^!?/]+)`)
	hexPairRe       = regexp.MustCompile(`0x[0-9a-f]+:0x[0-9a-f]+`)
	secondaryDataRe = regexp.MustCompile(`!19s([^!?/]+)`)
)

// identityStrategy returns a candidate identifier from a raw listing, or ""
// when this source has nothing. Strategies are pure and evaluated in
// sequence; the chain itself is data, not a cascade of conditionals.
type identityStrategy func(Raw) string

var identityChain = []identityStrategy{
	fromDataParam,
	fromHexPair,
	fromSecondaryDataParam,
	fromDataAttribute,
	fromCoordinateKey,
	fromContentHash,
}

// resolveIdentity walks the strategy chain and falls back to a run-unique
// sequence number when every source comes up empty. A trailing query-string
// fragment is always stripped from the resolved identifier.
func resolveIdentity(raw Raw, nextSeq func() int) string {
	for _, strat := range identityChain {
		if id := strat(raw); id != "" {
			return stripQuery(id)
		}
	}
	return fmt.Sprintf("seq-%d", nextSeq())
}

func stripQuery(id string) string {
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	return id
}

// fromDataParam: the structured identifier embedded in the canonical detail
// path's data parameter (!1s...).
func fromDataParam(raw Raw) string {
	if m := dataParamRe.FindStringSubmatch(raw.Href); m != nil {
		return m[1]
	}
	return ""
}

// fromHexPair: the 0x...:0x... identifier pair that appears in most detail
// links even when the data parameter is absent.
func fromHexPair(raw Raw) string {
	return hexPairRe.FindString(strings.ToLower(raw.Href))
}

// fromSecondaryDataParam: a second internal data parameter (!19s...) used
// by some layout variants.
func fromSecondaryDataParam(raw Raw) string {
	if m := secondaryDataRe.FindStringSubmatch(raw.Href); m != nil {
		return m[1]
	}
	return ""
}

// fromDataAttribute: an identifier exposed on the element or an ancestor.
func fromDataAttribute(raw Raw) string {
	return strings.TrimSpace(raw.DataPid)
}

// fromCoordinateKey: a hex-encoded key derived from the link coordinates.
func fromCoordinateKey(raw Raw) string {
	coords := parseCoordinates(raw.Href)
	if coords == nil {
		return ""
	}
	// Six decimal places is ~10cm; enough to distinguish neighbours.
	lat := int64(coords.Latitude * 1e6)
	lng := int64(coords.Longitude * 1e6)
	return fmt.Sprintf("coord-%x-%x", uint64(lat), uint64(lng))
}

// fromContentHash: a deterministic hash of name + coordinates, for listings
// whose link carries neither an identifier nor usable coordinates but whose
// container does.
func fromContentHash(raw Raw) string {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = strings.TrimSpace(raw.Heading)
	}
	if name == "" {
		return ""
	}
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(name)))
	if coords := parseCoordinates(raw.Href); coords != nil {
		fmt.Fprintf(h, "|%.6f|%.6f", coords.Latitude, coords.Longitude)
	}
	return fmt.Sprintf("hash-%x", h.Sum64())
}
