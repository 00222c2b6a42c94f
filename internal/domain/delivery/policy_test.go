package delivery

import (
	"database/sql"
	"testing"
	"time"

	"mealplan_delivery_service/internal/domain/mealplan"
	"mealplan_delivery_service/internal/domain/user"
)

func baseProfile() *user.Profile {
	return &user.Profile{
		Email:            "user@example.com",
		Phone:            "+15551234567",
		Timezone:         "UTC",
		DeliveryEnabled:  true,
		DeliveryTime:     "08:00",
		WhatsAppVerified: true,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, time.June, 10, hour, minute, 30, 0, time.UTC)
}

func sentRecord() *mealplan.Record {
	return &mealplan.Record{
		ID:     1,
		SentAt: sql.NullTime{Time: at(8, 0), Valid: true},
	}
}

func unsentRecord() *mealplan.Record {
	return &mealplan.Record{ID: 1}
}

func TestEvaluateGates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		mutate   func(p *user.Profile)
		localNow time.Time
		existing *mealplan.Record
		outcome  Outcome
		reason   string
	}{
		{
			name:     "delivery disabled",
			mutate:   func(p *user.Profile) { p.DeliveryEnabled = false },
			localNow: at(8, 0),
			outcome:  OutcomeSkip,
			reason:   ReasonDeliveryDisabled,
		},
		{
			name:     "no contact address",
			mutate:   func(p *user.Profile) { p.Phone = "  " },
			localNow: at(8, 0),
			outcome:  OutcomeSkip,
			reason:   ReasonNoContactAddress,
		},
		{
			name:     "channel not verified",
			mutate:   func(p *user.Profile) { p.WhatsAppVerified = false },
			localNow: at(8, 0),
			outcome:  OutcomeSkip,
			reason:   ReasonChannelNotVerified,
		},
		{
			name: "start date in the future",
			mutate: func(p *user.Profile) {
				p.DeliveryStartDate = sql.NullTime{Time: at(8, 0).AddDate(0, 0, 1), Valid: true}
			},
			localNow: at(8, 0),
			outcome:  OutcomeSkip,
			reason:   ReasonBeforeStartDate,
		},
		{
			name: "start date today passes",
			mutate: func(p *user.Profile) {
				p.DeliveryStartDate = sql.NullTime{Time: at(8, 0), Valid: true}
			},
			localNow: at(8, 0),
			outcome:  OutcomeGenerateAndSend,
		},
		{
			name:     "malformed delivery time",
			mutate:   func(p *user.Profile) { p.DeliveryTime = "8am" },
			localNow: at(8, 0),
			outcome:  OutcomeSkip,
			reason:   ReasonInvalidDeliveryTime,
		},
		{
			name:     "one minute past the target",
			mutate:   func(p *user.Profile) {},
			localNow: at(8, 1),
			outcome:  OutcomeSkip,
			reason:   ReasonOutsideDeliveryTime,
		},
		{
			name:     "exact minute, no record",
			mutate:   func(p *user.Profile) {},
			localNow: at(8, 0),
			outcome:  OutcomeGenerateAndSend,
		},
		{
			name:     "exact minute, unsent record",
			mutate:   func(p *user.Profile) {},
			localNow: at(8, 0),
			existing: unsentRecord(),
			outcome:  OutcomeResendExisting,
		},
		{
			name:     "exact minute, already delivered",
			mutate:   func(p *user.Profile) {},
			localNow: at(8, 0),
			existing: sentRecord(),
			outcome:  OutcomeSkip,
			reason:   ReasonAlreadyDelivered,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := baseProfile()
			tt.mutate(p)
			d := Evaluate(p, tt.localNow, tt.existing)
			if d.Outcome != tt.outcome {
				t.Fatalf("Outcome = %s, want %s", d.Outcome, tt.outcome)
			}
			if tt.reason != "" && d.Reason != tt.reason {
				t.Fatalf("Reason = %q, want %q", d.Reason, tt.reason)
			}
		})
	}
}

func TestEvaluateDisabledAlwaysSkips(t *testing.T) {
	t.Parallel()
	p := baseProfile()
	p.DeliveryEnabled = false
	for hour := 0; hour < 24; hour++ {
		d := Evaluate(p, at(hour, 0), nil)
		if d.Outcome != OutcomeSkip {
			t.Fatalf("hour %d: Outcome = %s, want SKIP", hour, d.Outcome)
		}
	}
}

func TestEvaluateImmediateBypassesClockOnly(t *testing.T) {
	t.Parallel()
	p := baseProfile()

	d := EvaluateImmediate(p, at(13, 37), nil)
	if d.Outcome != OutcomeGenerateAndSend {
		t.Fatalf("Outcome = %s, want GENERATE_AND_SEND", d.Outcome)
	}

	// Idempotency still applies off the clock.
	d = EvaluateImmediate(p, at(13, 37), sentRecord())
	if d.Outcome != OutcomeSkip || d.Reason != ReasonAlreadyDelivered {
		t.Fatalf("got %s/%q, want SKIP/already delivered", d.Outcome, d.Reason)
	}

	// As do the prerequisite gates.
	p.WhatsAppVerified = false
	d = EvaluateImmediate(p, at(13, 37), nil)
	if d.Outcome != OutcomeSkip || d.Reason != ReasonChannelNotVerified {
		t.Fatalf("got %s/%q, want SKIP/not verified", d.Outcome, d.Reason)
	}
}

func TestLocalNow(t *testing.T) {
	t.Parallel()
	utc := time.Date(2025, time.June, 10, 2, 30, 0, 0, time.UTC)

	kolkata := LocalNow("Asia/Kolkata", utc)
	if got := kolkata.Format("15:04"); got != "08:00" {
		t.Fatalf("Asia/Kolkata local time = %s, want 08:00", got)
	}

	// Unknown zones degrade to UTC instead of failing the evaluation.
	fallback := LocalNow("Not/AZone", utc)
	if !fallback.Equal(utc) || fallback.Location() != time.UTC {
		t.Fatalf("fallback = %v in %v, want UTC passthrough", fallback, fallback.Location())
	}
}

func TestDateOfCrossesMidnight(t *testing.T) {
	t.Parallel()
	// 23:30 UTC on the 10th is already the 11th in Kolkata.
	utc := time.Date(2025, time.June, 10, 23, 30, 0, 0, time.UTC)
	local := LocalNow("Asia/Kolkata", utc)
	if got := DateOf(local).Format("2006-01-02"); got != "2025-06-11" {
		t.Fatalf("local date = %s, want 2025-06-11", got)
	}
}
