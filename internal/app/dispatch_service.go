// internal/app/dispatch_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealplan_delivery_service/internal/domain/delivery"
	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/mealplan"
	"mealplan_delivery_service/internal/domain/messaging"
	"mealplan_delivery_service/internal/domain/plangen"
	"mealplan_delivery_service/internal/domain/user"
	idb "mealplan_delivery_service/internal/infra/database" // Alias for DB sentinel errors

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Per-user dispatch errors. None of these may abort a batch: the scheduler
// pass catches them per user, and the on-demand endpoints map them to
// failure responses.
var ErrNoIngredients = fmt.Errorf("no ingredients stored for user")
var ErrGenerationFailed = fmt.Errorf("meal plan generation failed")
var ErrDispatchFailed = fmt.Errorf("meal plan dispatch failed")
var ErrProfileInvalid = fmt.Errorf("profile contact address invalid")

// Origin tags recorded on plan records for provenance. Informational only.
const (
	OriginScheduler = "scheduler"
	OriginAPIRun    = "api_run"
	OriginAPISend   = "api_send"
)

// Alerter receives operational failure notices from the scheduler pass.
// Implementations must be safe for concurrent use; a nil Alerter disables
// alerting.
type Alerter interface {
	Alert(text string) error
}

// Result describes what one dispatch evaluation did for one user.
type Result struct {
	Outcome   delivery.Outcome
	Reason    string
	Record    *mealplan.Record
	MessageID string
}

// DispatchService is the single shared implementation of the delivery
// decision and its execution. Both the recurring scheduler loop and the
// on-demand HTTP triggers go through it, so the once-per-day guarantees live
// in exactly one place.
type DispatchService struct {
	users       user.Repository
	plans       mealplan.Repository
	ingredients ingredient.Repository
	generator   plangen.Generator
	gateway     messaging.Gateway
	alerts      Alerter
	log         *logrus.Logger
}

func NewDispatchService(
	ur user.Repository,
	pr mealplan.Repository,
	ir ingredient.Repository,
	gen plangen.Generator,
	gw messaging.Gateway,
	alerts Alerter,
	log *logrus.Logger,
) *DispatchService {
	return &DispatchService{
		users:       ur,
		plans:       pr,
		ingredients: ir,
		generator:   gen,
		gateway:     gw,
		alerts:      alerts,
		log:         log,
	}
}

// RunScheduledPass executes one tick of the recurring loop: every
// delivery-enabled profile is evaluated independently against the same UTC
// instant. A user's failure is logged (and alerted, when configured) and
// never blocks the rest of the batch.
func (s *DispatchService) RunScheduledPass(ctx context.Context, nowUTC time.Time) {
	runID := uuid.NewString()
	log := s.log.WithField("run_id", runID)

	profiles, err := s.users.ListDeliveryEnabled(ctx)
	if err != nil {
		log.Errorf("Failed to list delivery-enabled users: %v", err)
		return
	}
	if len(profiles) == 0 {
		return
	}

	for _, p := range profiles {
		res, err := s.ProcessProfile(ctx, p, nowUTC, OriginScheduler)
		if err != nil {
			log.WithField("user", p.Email).Errorf("Dispatch failed: %v", err)
			s.alert(fmt.Sprintf("Meal plan dispatch failed for %s: %v", p.Email, err))
			continue
		}
		if res.Outcome != delivery.OutcomeSkip {
			log.WithFields(logrus.Fields{
				"user":       p.Email,
				"outcome":    string(res.Outcome),
				"message_id": res.MessageID,
			}).Info("Meal plan dispatched")
		}
	}
}

// Profile fetches a user's schedule profile by email.
func (s *DispatchService) Profile(ctx context.Context, email string) (*user.Profile, error) {
	return s.users.GetByEmail(ctx, email)
}

// RunForUser is the on-demand equivalent of one scheduler pass for exactly
// one user: same evaluator, same store, invoked synchronously.
func (s *DispatchService) RunForUser(ctx context.Context, email string) (*Result, error) {
	p, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.ProcessProfile(ctx, p, time.Now().UTC(), OriginAPIRun)
}

// SendNow dispatches immediately, bypassing only the delivery-minute clause.
// Every other gate and the once-per-day idempotency still apply: if today's
// plan was already delivered the call is a reasoned skip, not a second send.
func (s *DispatchService) SendNow(ctx context.Context, email string) (*Result, error) {
	p, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.process(ctx, p, time.Now().UTC(), OriginAPISend, true)
}

// ProcessProfile evaluates and executes the delivery decision for one user
// at the given UTC instant.
func (s *DispatchService) ProcessProfile(ctx context.Context, p *user.Profile, nowUTC time.Time, origin string) (*Result, error) {
	return s.process(ctx, p, nowUTC, origin, false)
}

func (s *DispatchService) process(ctx context.Context, p *user.Profile, nowUTC time.Time, origin string, immediate bool) (*Result, error) {
	localNow := delivery.LocalNow(p.Timezone, nowUTC)
	localDate := delivery.DateOf(localNow)

	// Re-read current state on every decision; never reuse a record from a
	// previous iteration.
	existing, err := s.plans.FindForDay(ctx, p.Email, localDate)
	if err != nil && !errors.Is(err, idb.ErrPlanNotFound) {
		return nil, fmt.Errorf("failed to look up existing plan for %s: %w", p.Email, err)
	}

	var decision delivery.Decision
	if immediate {
		decision = delivery.EvaluateImmediate(p, localNow, existing)
	} else {
		decision = delivery.Evaluate(p, localNow, existing)
	}

	switch decision.Outcome {
	case delivery.OutcomeSkip:
		s.log.WithFields(logrus.Fields{"user": p.Email, "reason": decision.Reason}).Debug("Skipping user")
		return &Result{Outcome: delivery.OutcomeSkip, Reason: decision.Reason}, nil

	case delivery.OutcomeGenerateAndSend:
		return s.generateAndSend(ctx, p, localDate, nowUTC, origin)

	case delivery.OutcomeResendExisting:
		return s.resend(ctx, p, existing, nowUTC)
	}

	return nil, fmt.Errorf("unknown delivery outcome %q for user %s", decision.Outcome, p.Email)
}

func (s *DispatchService) generateAndSend(ctx context.Context, p *user.Profile, localDate, nowUTC time.Time, origin string) (*Result, error) {
	if err := messaging.ValidateAddress(p.Phone); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileInvalid, err)
	}

	items, err := s.ingredients.ListByUser(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients for %s: %w", p.Email, err)
	}
	if len(items) == 0 {
		return nil, ErrNoIngredients
	}

	// A generation failure aborts this user for this cycle. No plan record
	// is created, so the next tick starts over cleanly.
	plan, err := s.generator.Generate(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if plan == nil || plan.Empty() {
		return nil, fmt.Errorf("%w: generator returned no usable content", ErrGenerationFailed)
	}

	rec := &mealplan.Record{
		UserEmail: p.Email,
		PlanDate:  localDate,
		Content:   *plan,
		Origin:    origin,
	}
	if err := s.plans.Create(ctx, rec); err != nil {
		if errors.Is(err, idb.ErrDuplicatePlan) {
			// Lost the create race to a concurrent caller. Converge on the
			// winner's record and follow the resend path against it.
			s.log.WithField("user", p.Email).Info("Concurrent plan creation detected; re-reading stored plan")
			winner, ferr := s.plans.FindForDay(ctx, p.Email, localDate)
			if ferr != nil {
				return nil, fmt.Errorf("failed to re-read plan after create conflict for %s: %w", p.Email, ferr)
			}
			if winner.SentAt.Valid {
				return &Result{Outcome: delivery.OutcomeSkip, Reason: delivery.ReasonAlreadyDelivered, Record: winner}, nil
			}
			return s.resend(ctx, p, winner, nowUTC)
		}
		return nil, fmt.Errorf("failed to save plan record for %s: %w", p.Email, err)
	}

	return s.send(ctx, p, rec, nowUTC, delivery.OutcomeGenerateAndSend)
}

func (s *DispatchService) resend(ctx context.Context, p *user.Profile, rec *mealplan.Record, nowUTC time.Time) (*Result, error) {
	if err := messaging.ValidateAddress(p.Phone); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileInvalid, err)
	}
	return s.send(ctx, p, rec, nowUTC, delivery.OutcomeResendExisting)
}

// send attempts the gateway call and sets the sent marker on success. On
// gateway failure the marker stays absent, so the next evaluation naturally
// retries via RESEND_EXISTING. There is no in-process retry state to lose.
func (s *DispatchService) send(ctx context.Context, p *user.Profile, rec *mealplan.Record, nowUTC time.Time, outcome delivery.Outcome) (*Result, error) {
	text := messaging.FormatPlanMessage(p.Name, rec.Content)

	receipt, err := s.gateway.Send(ctx, p.Phone, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	if err := s.plans.MarkSent(ctx, rec.ID, nowUTC); err != nil {
		// The message is out; failing to persist the marker only risks one
		// duplicate send on the next matching tick. Log, don't fail the user.
		s.log.WithField("user", p.Email).Errorf("Failed to set sent marker on record %d: %v", rec.ID, err)
	}

	return &Result{
		Outcome:   outcome,
		Record:    rec,
		MessageID: receipt.MessageID,
	}, nil
}

func (s *DispatchService) alert(text string) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.Alert(text); err != nil {
		s.log.Warnf("Failed to deliver ops alert: %v", err)
	}
}
