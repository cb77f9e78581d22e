package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab wraps a Rod page with tier-specific setup: stealth, resource
// blocking, and navigation with a bounded timeout.
type Tab struct {
	Page    *rod.Page
	PageURL string
}

type tabConfig struct {
	noBlocking bool
}

// TabOption adjusts per-tab setup in OpenTab.
type TabOption func(*tabConfig)

// WithoutResourceBlocking opens the tab without the manager's resource
// block list. Tiers that read image bytes off the page need this.
func WithoutResourceBlocking() TabOption {
	return func(tc *tabConfig) { tc.noBlocking = true }
}

// OpenTab creates a stealth tab, navigates to the URL, and waits for the
// load event. The caller must Close the tab on every exit path.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string, opts ...TabOption) (*Tab, error) {
	var tc tabConfig
	for _, opt := range opts {
		opt(&tc)
	}

	b, err := mgr.Start(ctx)
	if err != nil {
		return nil, err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if !tc.noBlocking && len(mgr.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, mgr.cfg.ResourceBlocking); err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, mgr.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Tab{Page: page, PageURL: pageURL}, nil
}

// HTML serializes the complete DOM as outer HTML.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	res, err := t.Page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// ScrollBy scrolls the window vertically and gives the page a moment to
// append lazily loaded results.
func (t *Tab) ScrollBy(ctx context.Context, pixels int, settle time.Duration) error {
	_, err := t.Page.Context(ctx).Eval(`(y) => window.scrollBy(0, y)`, pixels)
	if err != nil {
		return fmt.Errorf("browser: scroll: %w", err)
	}
	if settle > 0 {
		select {
		case <-time.After(settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Click clicks the first element matching the selector.
func (t *Tab) Click(ctx context.Context, selector string) error {
	el, err := t.Page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: element %q: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click %q: %w", selector, err)
	}
	return nil
}

// ElementAttr waits (bounded) for the selector to appear and returns the
// given attribute of the first match. Returns "" when absent.
func (t *Tab) ElementAttr(ctx context.Context, selector, attr string, timeout time.Duration) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := t.Page.Context(waitCtx).Element(selector)
	if err != nil {
		return "", fmt.Errorf("browser: element %q: %w", selector, err)
	}
	val, err := el.Attribute(attr)
	if err != nil {
		return "", fmt.Errorf("browser: attribute %q: %w", attr, err)
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

// Screenshot captures the viewport as PNG.
func (t *Tab) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := t.Page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return data, nil
}

// PressEscape sends Escape, dismissing overlays and previews.
func (t *Tab) PressEscape() error {
	return t.Page.Keyboard.Press(input.Escape)
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
