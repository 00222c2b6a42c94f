package delivery

import (
	"strings"
	"time"

	"mealplan_delivery_service/internal/domain/mealplan"
	"mealplan_delivery_service/internal/domain/user"
)

// Outcome is the evaluator's verdict for one user at one instant.
type Outcome string

const (
	OutcomeSkip            Outcome = "SKIP"
	OutcomeGenerateAndSend Outcome = "GENERATE_AND_SEND"
	OutcomeResendExisting  Outcome = "RESEND_EXISTING"
)

// Skip reasons surfaced alongside OutcomeSkip so callers can log why a user
// was passed over without re-deriving the decision.
const (
	ReasonDeliveryDisabled    = "delivery disabled"
	ReasonNoContactAddress    = "no contact address"
	ReasonChannelNotVerified  = "whatsapp not verified"
	ReasonInvalidDeliveryTime = "invalid delivery_time format"
	ReasonBeforeStartDate     = "before delivery start date"
	ReasonOutsideDeliveryTime = "outside delivery minute"
	ReasonAlreadyDelivered    = "already delivered today"
)

// Decision pairs an outcome with its reason.
type Decision struct {
	Outcome Outcome
	Reason  string
}

func skip(reason string) Decision {
	return Decision{Outcome: OutcomeSkip, Reason: reason}
}

// Evaluate is the pure daily-delivery decision function. It inspects only
// its inputs and always returns a decision, never an error: configuration
// problems degrade into a reasoned skip. The time match is exact-minute;
// any slack comes from the caller's poll cadence, not from the policy.
//
// existing is the plan record already stored for the user's current local
// date, or nil when none exists.
func Evaluate(p *user.Profile, localNow time.Time, existing *mealplan.Record) Decision {
	return evaluate(p, localNow, existing, false)
}

// EvaluateImmediate applies the same gates as Evaluate but treats the
// delivery-minute clause as matched. It backs the "send now" trigger: every
// prerequisite and the once-per-day guarantee still hold, only the alarm
// clock is bypassed.
func EvaluateImmediate(p *user.Profile, localNow time.Time, existing *mealplan.Record) Decision {
	return evaluate(p, localNow, existing, true)
}

func evaluate(p *user.Profile, localNow time.Time, existing *mealplan.Record, ignoreClock bool) Decision {
	if !p.DeliveryEnabled {
		return skip(ReasonDeliveryDisabled)
	}
	if strings.TrimSpace(p.Phone) == "" {
		return skip(ReasonNoContactAddress)
	}
	if !p.WhatsAppVerified {
		return skip(ReasonChannelNotVerified)
	}

	if p.DeliveryStartDate.Valid {
		start := DateOf(p.DeliveryStartDate.Time)
		if DateOf(localNow).Before(start) {
			return skip(ReasonBeforeStartDate)
		}
	}

	if !ignoreClock {
		if _, err := time.Parse("15:04", p.DeliveryTime); err != nil {
			return skip(ReasonInvalidDeliveryTime)
		}
		if localNow.Format("15:04") != p.DeliveryTime {
			return skip(ReasonOutsideDeliveryTime)
		}
	}

	if existing == nil {
		return Decision{Outcome: OutcomeGenerateAndSend}
	}
	if existing.SentAt.Valid {
		return skip(ReasonAlreadyDelivered)
	}
	return Decision{Outcome: OutcomeResendExisting}
}
