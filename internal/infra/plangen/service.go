package plangen

import (
	"context"
	"fmt"

	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/mealplan"

	"github.com/sirupsen/logrus"
)

// Service implements plangen.Generator: remote model first, local heuristic
// when the remote call fails or no remote is configured.
type Service struct {
	remote *RemoteClient // nil means heuristic-only
	log    *logrus.Logger
}

func NewService(remote *RemoteClient, log *logrus.Logger) *Service {
	return &Service{remote: remote, log: log}
}

func (s *Service) Generate(ctx context.Context, items []ingredient.Ingredient) (*mealplan.Plan, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("cannot generate a plan from an empty ingredient list")
	}

	if s.remote != nil {
		plan, err := s.remote.Generate(ctx, items)
		if err == nil {
			return plan, nil
		}
		s.log.Warnf("Remote plan generation failed, using heuristic plan: %v", err)
	}

	plan := BuildBasicPlan(items)
	return &plan, nil
}
