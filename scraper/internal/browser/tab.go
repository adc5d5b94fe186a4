package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab wraps a Rod page with the per-search setup: stealth, fixed viewport,
// forced locale, and resource blocking.
type Tab struct {
	Page *rod.Page
}

// OpenTab creates a stealth tab, applies viewport/locale/resource rules,
// and navigates to the URL within timeout. The caller owns the tab and must
// Close it; tabs are never shared between concurrent searches.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string, timeout time.Duration) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             mgr.cfg.ViewportWidth,
		Height:            mgr.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		mgr.cfg.Logger.Warn("browser: set viewport failed", "error", err)
	}

	if err := (proto.EmulationSetLocaleOverride{Locale: mgr.cfg.Locale}).Call(page); err != nil {
		mgr.cfg.Logger.Warn("browser: set locale failed", "locale", mgr.cfg.Locale, "error", err)
	}

	applyResourceBlocking(page, mgr.cfg.BlockedResources)

	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Tab{Page: page}, nil
}

// HTML serialises the rendered document as outer HTML.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	res, err := t.Page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get HTML: %w", err)
	}
	return res.Value.Str(), nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
