// Package mail renders locale-specific report emails and builds compose
// deep-links. Nothing here delivers anything: opening a target hands the
// prefilled message to the visitor's own mail client.
package mail

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/model"
)

// Provider selects the shape of the compose deep-link.
type Provider string

const (
	// ProviderMailto targets the device's default mail handler.
	ProviderMailto Provider = "mailto"
	// ProviderGmail targets the Gmail web compose window.
	ProviderGmail Provider = "gmail"
	// ProviderOutlook targets the Outlook web compose window.
	ProviderOutlook Provider = "outlook"
)

// ParseProvider validates a provider name from user input.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderMailto:
		return ProviderMailto, nil
	case ProviderGmail:
		return ProviderGmail, nil
	case ProviderOutlook:
		return ProviderOutlook, nil
	default:
		return "", fmt.Errorf("unknown mail provider %q", s)
	}
}

// Composer renders report subjects and bodies and builds provider targets.
type Composer struct {
	catalog   *i18n.Catalog
	recipient string
	pageURL   string
	now       func() time.Time // injectable for tests
}

// NewComposer returns a composer for the given recipient mailbox and
// originating page URL.
func NewComposer(catalog *i18n.Catalog, recipient, pageURL string) *Composer {
	return &Composer{catalog: catalog, recipient: recipient, pageURL: pageURL, now: time.Now}
}

const divider = "-----------------------------------"

// RenderBody renders the deterministic plain-text report body for the
// locale. Blank fields render as the locale's placeholder token. The footer
// carries the originating page URL and the UTC compose time.
func (c *Composer) RenderBody(locale i18n.Locale, draft model.Draft) string {
	d := draft.Trimmed()
	msg := func(key string) string { return c.catalog.Resolve(locale, key) }
	orElse := func(v, fallbackKey string) string {
		if v == "" {
			return msg(fallbackKey)
		}
		return v
	}

	details := d.Details
	if details == "" {
		details = msg(i18n.KeyNoDetails)
	}

	lines := []string{
		msg(i18n.KeyBodyHeading),
		divider,
		msg(i18n.KeyLabelType) + ": " + orElse(d.ReportType, i18n.KeyNotSpecified),
		msg(i18n.KeyLabelNetwork) + ": " + orElse(d.Network, i18n.KeyNotSpecified),
		msg(i18n.KeyLabelEntity) + ": " + orElse(d.Entity, i18n.KeyNotSpecified),
		msg(i18n.KeyLabelAddress) + ": " + orElse(d.Address, i18n.KeyNotSpecified),
		msg(i18n.KeyLabelLinks) + ": " + orElse(d.Links, i18n.KeyNotProvided),
		msg(i18n.KeyLabelContact) + ": " + orElse(d.Contact, i18n.KeyNotProvided),
		"",
		msg(i18n.KeyDetailsHeading),
		details,
		"",
		divider,
		msg(i18n.KeyLabelPage) + ": " + c.pageURL,
		msg(i18n.KeyLabelComposed) + ": " + c.now().UTC().Format(time.RFC3339),
	}
	return strings.Join(lines, "\n")
}

// RenderSubject renders the locale's subject tag, followed by the report
// type when one is set.
func (c *Composer) RenderSubject(locale i18n.Locale, draft model.Draft) string {
	tag := c.catalog.Resolve(locale, i18n.KeySubjectTag)
	if t := strings.TrimSpace(draft.ReportType); t != "" {
		return tag + ": " + t
	}
	return tag
}

// BuildTarget builds the provider's compose URL carrying the identical
// percent-encoded subject and body.
func (c *Composer) BuildTarget(provider Provider, subject, body string) (string, error) {
	to := encode(c.recipient)
	su := encode(subject)
	bo := encode(body)

	switch provider {
	case ProviderMailto:
		return fmt.Sprintf("mailto:%s?subject=%s&body=%s", to, su, bo), nil
	case ProviderGmail:
		return fmt.Sprintf("https://mail.google.com/mail/?view=cm&fs=1&to=%s&su=%s&body=%s", to, su, bo), nil
	case ProviderOutlook:
		return fmt.Sprintf("https://outlook.office.com/mail/deeplink/compose?to=%s&subject=%s&body=%s", to, su, bo), nil
	default:
		return "", fmt.Errorf("unknown mail provider %q", provider)
	}
}

// encode percent-encodes a query component. Spaces become %20, not +; mail
// handlers do not decode the form-encoding convention.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
