// Package fetch retrieves the council's collection-day results page with a
// headless browser.
//
// The form is JavaScript-driven (postcode lookup populates an address
// dropdown, selection reveals the submit button), so a plain HTTP GET cannot
// reach the results table. Everything downstream consumes only the returned
// HTML string and has no dependency on how it was obtained.
package fetch

import (
	"context"
	"time"
)

// DefaultURL is the council's collection-day form.
const DefaultURL = "https://app.bathnes.gov.uk/webforms/waste/collectionday/"

// Config holds what one fetch needs to know.
type Config struct {
	// URL of the collection-day form. Empty means DefaultURL.
	URL string

	// Postcode typed into the lookup field.
	Postcode string

	// AddressText is matched against the address dropdown's option labels,
	// exactly first, then case-insensitive substring.
	AddressText string

	// UserAgent for the browser session. Empty means a desktop Chrome UA.
	UserAgent string

	// Timeout bounds the whole navigation. Zero means 90 seconds.
	Timeout time.Duration
}

// Fetcher produces the fully-loaded results page HTML.
type Fetcher interface {
	// Fetch drives the form to the results table and returns the page HTML.
	Fetch(ctx context.Context) (string, error)

	// Close releases browser resources.
	Close() error
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	}
	if c.Timeout == 0 {
		c.Timeout = 90 * time.Second
	}
	return c
}
