// Package form is the top-level state machine for the submission flow:
// Idle → Validating → {SilentlyRejected, Rejected(reason), Accepted} → Idle.
// Each control action maps to one method, and each method returns the full
// effect of the transition, so tests drive the machine without a UI.
package form

import (
	"time"

	"github.com/whaleprotocol/watchdesk/internal/i18n"
	"github.com/whaleprotocol/watchdesk/internal/mail"
	"github.com/whaleprotocol/watchdesk/internal/model"
	"github.com/whaleprotocol/watchdesk/internal/report"
)

// Panel identifies the single status panel to show. Panels are mutually
// exclusive; displaying one hides all others.
type Panel string

const (
	PanelNone            Panel = ""
	PanelCopied          Panel = "ok"
	PanelMissingCore     Panel = "warn"
	PanelMissingEvidence Panel = "bad"
	PanelCooldown        Panel = "cooldown"
)

// copiedAutoHide is how long the success panel stays up before hiding.
const copiedAutoHide = 2200 * time.Millisecond

// Result is the complete effect of one transition. A silent rejection is a
// zero Result apart from the outcome: no panel, no side effects.
type Result struct {
	Outcome report.Outcome

	// Panel and PanelMessage describe the one status panel to show, if any.
	Panel         Panel
	PanelMessage  string
	PanelAutoHide time.Duration

	// Navigate is the compose URL to open for an accepted send.
	Navigate string

	// CopyText is the rendered body for an accepted copy. AlertOnFailure is
	// the localized message to surface if both the clipboard write and the
	// off-screen capture fallback fail; a failed copy must never be silent.
	CopyText       string
	AlertOnFailure string
}

// Controller orchestrates the cooldown guard, the validator, and the
// composer. Callers resolve the visitor id and locale per request and pass
// both in; all cooldown state is scoped to that visitor.
type Controller struct {
	catalog   *i18n.Catalog
	guard     *report.CooldownGuard
	validator *report.Validator
	composer  *mail.Composer
}

// NewController wires the submission pipeline.
func NewController(catalog *i18n.Catalog, guard *report.CooldownGuard, composer *mail.Composer) *Controller {
	return &Controller{
		catalog:   catalog,
		guard:     guard,
		validator: report.NewValidator(guard),
		composer:  composer,
	}
}

// Send validates the visitor's draft and, when accepted, records that
// visitor's cooldown and returns the provider's compose URL to navigate to.
func (c *Controller) Send(visitor string, locale i18n.Locale, draft model.Draft, provider mail.Provider) (Result, error) {
	res := c.validate(visitor, locale, draft)
	if res.Outcome != report.Accepted {
		return res, nil
	}

	subject := c.composer.RenderSubject(locale, draft)
	body := c.composer.RenderBody(locale, draft)
	target, err := c.composer.BuildTarget(provider, subject, body)
	if err != nil {
		return Result{}, err
	}

	if err := c.guard.MarkSent(visitor); err != nil {
		return Result{}, err
	}
	res.Navigate = target
	return res, nil
}

// Copy validates the visitor's draft and, when accepted, records that
// visitor's cooldown and returns the rendered body for the clipboard, plus
// the failure alert text.
func (c *Controller) Copy(visitor string, locale i18n.Locale, draft model.Draft) (Result, error) {
	res := c.validate(visitor, locale, draft)
	if res.Outcome != report.Accepted {
		return res, nil
	}

	if err := c.guard.MarkSent(visitor); err != nil {
		return Result{}, err
	}
	res.CopyText = c.composer.RenderBody(locale, draft)
	res.AlertOnFailure = c.catalog.Resolve(locale, i18n.KeyStatusCopyFailed)
	res.Panel = PanelCopied
	res.PanelMessage = c.catalog.Resolve(locale, i18n.KeyStatusCopied)
	res.PanelAutoHide = copiedAutoHide
	return res, nil
}

// validate classifies the draft and fills in the rejection panel, if any.
func (c *Controller) validate(visitor string, locale i18n.Locale, draft model.Draft) Result {
	outcome := c.validator.Validate(visitor, draft)
	res := Result{Outcome: outcome}

	switch outcome {
	case report.RejectedMissingCore:
		res.Panel = PanelMissingCore
		res.PanelMessage = c.catalog.Resolve(locale, i18n.KeyStatusMissing)
	case report.RejectedMissingEvidence:
		res.Panel = PanelMissingEvidence
		res.PanelMessage = c.catalog.Resolve(locale, i18n.KeyStatusNoEvidence)
	case report.RejectedCooldown:
		res.Panel = PanelCooldown
		res.PanelMessage = c.catalog.Resolve(locale, i18n.KeyStatusCooldown)
	}
	// RejectedSilently and Accepted show no rejection panel.
	return res
}
