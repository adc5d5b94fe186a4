package listing

import (
	"regexp"
	"strconv"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// coordRe matches the !3d<lat>!4d<lng> numeric pattern embedded in detail
// links.
var coordRe = regexp.MustCompile(`!3d(-?\d+(?:\.\d+)?)!4d(-?\d+(?:\.\d+)?)`)

// parseCoordinates extracts the coordinate pair from a detail link, or nil
// when the link carries none.
func parseCoordinates(href string) *record.Coordinates {
	m := coordRe.FindStringSubmatch(href)
	if m == nil {
		return nil
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return &record.Coordinates{Latitude: lat, Longitude: lng}
}
