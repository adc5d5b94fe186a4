package scraper

import "errors"

// ErrNoQuery means the config carries neither a query nor a direct URL.
var ErrNoQuery = errors.New("scraper: query or url required")

// ErrNotStarted means Search was called before Start.
var ErrNotStarted = errors.New("scraper: browser not started")
