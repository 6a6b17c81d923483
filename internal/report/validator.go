package report

import (
	"unicode/utf8"

	"github.com/whaleprotocol/watchdesk/internal/model"
)

// Outcome classifies a validated draft. Exactly one outcome per call.
type Outcome int

const (
	// Accepted means the draft may be composed and sent.
	Accepted Outcome = iota
	// RejectedSilently means the honeypot tripped. No feedback is shown;
	// bots must not learn they were detected.
	RejectedSilently
	// RejectedMissingCore means report type or details are absent or too
	// short.
	RejectedMissingCore
	// RejectedMissingEvidence means neither a suspect address nor evidence
	// links are present.
	RejectedMissingEvidence
	// RejectedCooldown means the send window has not elapsed yet.
	RejectedCooldown
)

// String returns a stable name for logs and metrics labels.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedSilently:
		return "rejected_silently"
	case RejectedMissingCore:
		return "rejected_missing_core"
	case RejectedMissingEvidence:
		return "rejected_missing_evidence"
	case RejectedCooldown:
		return "rejected_cooldown"
	default:
		return "unknown"
	}
}

const (
	// minDetailsLen is the shortest details text, in characters, that
	// counts as present.
	minDetailsLen = 3
	// minEvidenceLen is the character count an address or link field must
	// exceed to count as present.
	minEvidenceLen = 3
)

// Validator applies the submission rules in fixed priority order,
// short-circuiting at the first match. Bot detection comes first so no
// signal ever leaks; missing core fields outrank missing evidence; the
// cooldown is checked last so a legitimate user always sees the most
// actionable error.
type Validator struct {
	guard *CooldownGuard
}

// NewValidator returns a validator backed by the given cooldown guard.
func NewValidator(guard *CooldownGuard) *Validator {
	return &Validator{guard: guard}
}

// Validate classifies the visitor's draft. It reads the cooldown guard but
// never records a send; callers mark the send after acting on Accepted.
func (v *Validator) Validate(visitor string, draft model.Draft) Outcome {
	d := draft.Trimmed()

	if d.Honeypot != "" {
		return RejectedSilently
	}
	if d.ReportType == "" || utf8.RuneCountInString(d.Details) < minDetailsLen {
		return RejectedMissingCore
	}
	if utf8.RuneCountInString(d.Address) <= minEvidenceLen && utf8.RuneCountInString(d.Links) <= minEvidenceLen {
		return RejectedMissingEvidence
	}
	if !v.guard.CanSendNow(visitor) {
		return RejectedCooldown
	}
	return Accepted
}
