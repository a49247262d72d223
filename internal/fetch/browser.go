package fetch

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Form element selectors. The postcode field is the form's first text input;
// the address dropdown normally carries a fixed id but falls back to the
// page's first <select>; the reveal button has a fixed id.
const (
	postcodeSelector = `form input[type="text"]`
	nextBtnSelector  = `#nextBtn`
	tableSelector    = `table`
)

// BrowserFetcher implements Fetcher with headless Chrome via chromedp.
//
// One allocator is created per fetcher; each Fetch runs in a fresh browser
// context so repeated fetches do not share page state.
type BrowserFetcher struct {
	cfg      Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserFetcher creates a fetcher with its own browser allocator.
func NewBrowserFetcher(cfg Config) (*BrowserFetcher, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		cfg:      cfg,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases the browser allocator.
func (f *BrowserFetcher) Close() error {
	f.cancel()
	return nil
}

// Fetch drives the council form end to end: enter postcode, submit the
// lookup, pick the configured address from the populated dropdown, reveal
// the collection days, and return the loaded page's outer HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context) (string, error) {
	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.cfg.Timeout)
	defer cancelTimeout()

	// Merge the caller's cancellation with the fetch timeout.
	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-timeoutCtx.Done():
		}
	}()

	var addressSelected bool
	var html string

	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(f.cfg.URL),

		// Postcode lookup.
		chromedp.WaitVisible(postcodeSelector, chromedp.ByQuery),
		chromedp.Click(postcodeSelector, chromedp.ByQuery),
		chromedp.SetValue(postcodeSelector, f.cfg.Postcode, chromedp.ByQuery),
		chromedp.Click(findButtonJSClick(), chromedp.ByJSPath),

		// The address dropdown appears and populates asynchronously.
		chromedp.Poll(addressOptionsReadyJS, nil),

		// Selecting through the DOM directly works even while the select is
		// styled invisible, which the site does until options arrive.
		chromedp.Evaluate(selectAddressJS(f.cfg.AddressText), &addressSelected),
	)
	if err != nil {
		return "", fmt.Errorf("postcode lookup: %w", err)
	}
	if !addressSelected {
		return "", fmt.Errorf("address %q not found in dropdown", f.cfg.AddressText)
	}

	err = chromedp.Run(timeoutCtx,
		chromedp.WaitVisible(nextBtnSelector, chromedp.ByQuery),
		chromedp.Click(nextBtnSelector, chromedp.ByQuery),
		chromedp.WaitVisible(tableSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("load collection days: %w", err)
	}

	return html, nil
}

// addressOptionsReadyJS is truthy once the address dropdown has real options
// beyond its placeholder.
const addressOptionsReadyJS = `(function() {
	var s = document.querySelector('#PCSelectp1') || document.querySelector('select');
	return !!s && s.options.length > 1;
})()`

// findButtonJSClick locates the postcode form's submit control. The button
// text has changed over the years ("Find", "Find address"), so match on
// submit semantics rather than label.
func findButtonJSClick() string {
	return `document.querySelector('form button[type="submit"], form input[type="submit"], form button')`
}

// selectAddressJS sets the address dropdown to the option whose label matches
// the wanted text (exact first, then case-insensitive substring either way)
// and fires a change event. Evaluates to true when an option was selected.
func selectAddressJS(addressText string) string {
	return fmt.Sprintf(`(function(wanted) {
	var s = document.querySelector('#PCSelectp1') || document.querySelector('select');
	if (!s) return false;

	var value = null;
	for (var i = 0; i < s.options.length; i++) {
		var opt = s.options[i];
		if (opt.value && opt.text.trim() === wanted) { value = opt.value; break; }
	}
	if (value === null) {
		var w = wanted.toLowerCase();
		for (var i = 0; i < s.options.length; i++) {
			var opt = s.options[i];
			if (!opt.value) continue;
			var t = opt.text.trim().toLowerCase();
			if (t.indexOf(w) !== -1 || w.indexOf(t) !== -1) { value = opt.value; break; }
		}
	}
	if (value === null) return false;

	s.value = value;
	s.dispatchEvent(new Event('change', { bubbles: true }));
	return s.value === value;
})(%q)`, addressText)
}
