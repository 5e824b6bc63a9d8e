// Package browser wraps a single headless-browser session behind the small
// surface the scrapers need: navigate, wait, scroll, click, snapshot HTML.
// One session and one tab are reused serially across every source and page.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Options tunes the session. Zero values fall back to the defaults below.
type Options struct {
	Headless    bool
	UserAgent   string
	WindowW     int
	WindowH     int
	NavTimeout  time.Duration
	SettleDelay time.Duration
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (o *Options) applyDefaults() {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.WindowW == 0 {
		o.WindowW = 1280
	}
	if o.WindowH == 0 {
		o.WindowH = 800
	}
	if o.NavTimeout == 0 {
		o.NavTimeout = 60 * time.Second
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = 2 * time.Second
	}
}

// Session is a live browser tab. Not safe for concurrent use; the whole
// pipeline is strictly sequential.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	navTimeout  time.Duration
	settleDelay time.Duration
}

// NewSession starts a browser and opens a tab.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	opts.applyDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(opts.WindowW, opts.WindowH),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Force the browser process to start now, so a missing Chrome binary
	// surfaces as an error here instead of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		navTimeout:  opts.NavTimeout,
		settleDelay: opts.SettleDelay,
	}, nil
}

// Close shuts the tab and the browser down.
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}

// Navigate loads a URL and waits for the document plus a short settle delay.
// The delay stands in for a true network-idle signal; slow connections can
// still under-render.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.settleDelay),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// WaitVisible waits for a selector with a bounded timeout. A timeout is not
// an error for callers: scraping proceeds best-effort with whatever loaded.
func (s *Session) WaitVisible(selector string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)) == nil
}

// ClickButtonWithText clicks the first visible button whose text contains
// the given string, if any. Used to dismiss cookie-consent banners.
func (s *Session) ClickButtonWithText(text string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	js := fmt.Sprintf(`
		(() => {
			const btn = Array.from(document.querySelectorAll('button'))
				.find(b => b.innerText.trim().includes(%q));
			if (!btn) return false;
			btn.click();
			return true;
		})()
	`, text)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return false
	}
	if clicked {
		chromedp.Run(ctx, chromedp.Sleep(time.Second))
	}
	return clicked
}

// ScrollAndSettle performs several scroll-and-pause cycles to trigger lazy
// loaded content.
func (s *Session) ScrollAndSettle(cycles, step int, pause time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, time.Duration(cycles+1)*(pause+5*time.Second))
	defer cancel()

	js := fmt.Sprintf(`window.scrollBy(0, %d);`, step)
	for i := 0; i < cycles; i++ {
		if err := chromedp.Run(ctx, chromedp.Evaluate(js, nil), chromedp.Sleep(pause)); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
	}
	return nil
}

// HTML returns the current DOM serialized as HTML.
func (s *Session) HTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("snapshot html: %w", err)
	}
	return html, nil
}
