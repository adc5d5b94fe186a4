// Package detail enriches listing-level records from the per-business
// detail view: address, phone, website, weekly hours, price level, and
// category. Collection is a single JS snapshot; interpretation is pure Go,
// so everything after the Eval is testable without a browser.
package detail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"
)

// Raw is one JS snapshot of the detail view's labelled controls. Fields
// with both an accessible label and visible text carry both; the parser
// prefers the label.
type Raw struct {
	Address      string            `json:"address"`
	AddressLabel string            `json:"addressLabel"`
	Phone        string            `json:"phone"`
	Website      string            `json:"website"`
	PriceText    string            `json:"priceText"`
	PriceContext string            `json:"priceContext"`
	Category     string            `json:"category"`
	HoursRows    map[string]string `json:"hoursRows"`
	HoursCompact string            `json:"hoursCompact"`
}

// collectScript reads the labelled detail controls in one pass. Selectors
// target stable data-item-id attributes first and fall back to aria labels;
// visible class names change too often to lead with.
const collectScript = `() => {
  const pick = (sels) => {
    for (const sel of sels) {
      const node = document.querySelector(sel);
      if (node) return node;
    }
    return null;
  };
  const text = (node) => node && node.textContent ? node.textContent.trim() : '';

  const addressNode = pick([
    'button[data-item-id="address"]',
    '[data-item-id="address"]',
    'button[aria-label*="Address"]'
  ]);

  const phoneNode = pick([
    'button[data-item-id^="phone:tel"]',
    'a[href^="tel:"]',
    'div[data-item-id^="phone"] span',
    'button[aria-label^="Phone:"] span'
  ]);
  let phone = '';
  if (phoneNode) {
    phone = phoneNode.href || text(phoneNode);
  }

  const websiteNode = pick([
    'a[data-item-id="authority"]',
    'a[data-item-id="website"]',
    'a[aria-label="Website"]',
    'a[aria-label="Website:"]',
    'a[href^="https://www.google.com/url?"][aria-label*="Website"]'
  ]);

  const priceNode = pick([
    'span[aria-label*="Price:"]',
    'span[aria-label*="rice range"]'
  ]);
  const categoryNode = pick([
    'button[jsaction*="category"]',
    'span[jsaction*="category"]',
    'button[jsaction*="pane.rating.category"]'
  ]);

  const hoursRows = {};
  for (const row of document.querySelectorAll('div[aria-label*="Hours"] table tr, table.eK4R0e tr')) {
    const cells = row.querySelectorAll('td, th');
    if (cells.length >= 2) {
      const day = text(cells[0]);
      const range = text(cells[1]);
      if (day && range) hoursRows[day] = range;
    }
  }
  const compactNode = pick([
    'button[data-item-id="oh"]',
    'div[data-item-id="oh"]',
    'div[aria-label*="Hours"] span'
  ]);

  return JSON.stringify({
    address: text(addressNode),
    addressLabel: addressNode ? (addressNode.getAttribute('aria-label') || '') : '',
    phone: phone,
    website: websiteNode ? (websiteNode.href || websiteNode.getAttribute('href') || '') : '',
    priceText: priceNode ? (priceNode.getAttribute('aria-label') || text(priceNode)) : '',
    priceContext: priceNode && priceNode.parentElement ? text(priceNode.parentElement) : '',
    category: text(categoryNode),
    hoursRows: hoursRows,
    hoursCompact: Object.keys(hoursRows).length === 0 ? text(compactNode) : ''
  });
}`

// expandHoursScript clicks the hours disclosure so the weekly table renders.
// Returns whether a control was found; a miss is not an error, the compact
// text fallback covers it.
const expandHoursScript = `() => {
  const control = document.querySelector(
    'button[data-item-id="oh"], div[data-item-id="oh"], button[aria-expanded="false"][aria-label*="Hours"]'
  );
  if (!control) return false;
  control.click();
  return true;
}`

// Collect snapshots the detail view's labelled controls.
func Collect(ctx context.Context, page *rod.Page) (Raw, error) {
	res, err := page.Context(ctx).Eval(collectScript)
	if err != nil {
		return Raw{}, fmt.Errorf("detail: collect: %w", err)
	}
	var raw Raw
	if err := json.Unmarshal([]byte(res.Value.Str()), &raw); err != nil {
		return Raw{}, fmt.Errorf("detail: decode snapshot: %w", err)
	}
	return raw, nil
}

func expandHours(ctx context.Context, page *rod.Page) bool {
	res, err := page.Context(ctx).Eval(expandHoursScript)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}
