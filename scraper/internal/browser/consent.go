package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
)

// consentScript clicks through the consent interstitial some regions show
// before the map renders. Returns whether a control was clicked.
const consentScript = `() => {
  const selectors = [
    'button[aria-label="Accept all"]',
    'button[aria-label="I agree"]',
    'button[aria-label="Alles akzeptieren"]',
    'button.VfPpkd-LgbsSe-OWXEXe-k8QpJ'
  ];
  for (const sel of selectors) {
    const btn = document.querySelector(sel);
    if (btn) {
      btn.click();
      return true;
    }
  }
  return false;
}`

// DismissConsent clicks a consent button if one is shown and gives the page
// a moment to settle. A page without the interstitial is a no-op.
func DismissConsent(ctx context.Context, page *rod.Page) {
	res, err := page.Context(ctx).Eval(consentScript)
	if err != nil || !res.Value.Bool() {
		return
	}
	select {
	case <-time.After(1500 * time.Millisecond):
	case <-ctx.Done():
	}
}
