// Package browser owns the Chrome process for one scraper instance: launch,
// per-search tab setup (viewport, locale, resource blocking), and teardown.
// It is the single non-pure component of the pipeline and the sole owner of
// the OS-level browser process handle.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless controls the launch mode. Default: true.
	Headless *bool

	// BlockedResources lists resource types to abort (images, fonts, media).
	BlockedResources []string

	// Locale is forced on every page ("en-US", "ja-JP", ...).
	Locale string

	// ViewportWidth/ViewportHeight fix the page viewport. Defaults: 1366x900.
	ViewportWidth  int
	ViewportHeight int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Headless == nil {
		v := true
		c.Headless = &v
	}
	if len(c.BlockedResources) == 0 {
		c.BlockedResources = []string{"images", "fonts", "media"}
	}
	if c.Locale == "" {
		c.Locale = "en-US"
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1366
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 900
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager manages the Chrome lifecycle. Start is idempotent-once: a second
// Start without an intervening Close fails.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	started bool
}

// NewManager creates a browser Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance). A broken
// browser environment cannot self-heal, so launch failures propagate
// without retry.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("browser: already started")
	}

	b, err := m.launch()
	if err != nil {
		return err
	}
	m.browser = b
	m.started = true
	return nil
}

// Browser returns the current Rod browser handle, or nil before Start.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// Close releases all open pages and then the browser process. Failures
// during close are logged and the handle discarded; Close never propagates
// them, so repeated teardowns cannot leak the process handle.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.cfg.Logger

	if m.browser != nil {
		if pages, err := m.browser.Pages(); err == nil {
			for _, p := range pages {
				if err := p.Close(); err != nil {
					log.Warn("browser: page close failed", "error", err)
				}
			}
		}
		if err := m.browser.Close(); err != nil {
			log.Warn("browser: close failed", "error", err)
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	m.started = false
}

func (m *Manager) launch() (*rod.Browser, error) {
	log := m.cfg.Logger

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(*m.cfg.Headless).
			Set("disable-blink-features", "AutomationControlled").
			Set("lang", m.cfg.Locale)

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "headless", *m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}

	return b, nil
}
