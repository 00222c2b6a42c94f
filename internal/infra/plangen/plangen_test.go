package plangen

import (
	"context"
	"testing"

	"mealplan_delivery_service/internal/domain/ingredient"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pantry() []ingredient.Ingredient {
	return []ingredient.Ingredient{
		{Name: "rice", Quantity: 2, Unit: "cups"},
		{Name: "chicken", Quantity: 500, Unit: "g"},
		{Name: "tomato", Quantity: 3, Unit: "pieces"},
	}
}

func TestBuildBasicPlanShape(t *testing.T) {
	t.Parallel()
	plan := BuildBasicPlan(pantry())

	require.False(t, plan.Empty())
	assert.Equal(t, "Hearty Chicken & Rice Breakfast Bowl", plan.Breakfast.Name)
	assert.Equal(t, "Hearty Chicken & Rice Dinner Bowl", plan.Dinner.Name)

	assert.Len(t, plan.Lunch.IngredientsUsed, 3)
	assert.GreaterOrEqual(t, len(plan.Lunch.Steps), 8, "heuristic recipes carry granular steps")
	assert.Contains(t, plan.Lunch.Steps[1], "rice")
}

func TestBuildBasicPlanCapsIngredients(t *testing.T) {
	t.Parallel()
	many := make([]ingredient.Ingredient, 9)
	for i := range many {
		many[i] = ingredient.Ingredient{Name: "item", Quantity: 1, Unit: "pieces"}
	}
	plan := BuildBasicPlan(many)
	assert.Len(t, plan.Breakfast.IngredientsUsed, 6)
}

func TestServiceFallsBackWithoutRemote(t *testing.T) {
	t.Parallel()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewService(nil, log)

	plan, err := svc.Generate(context.Background(), pantry())
	require.NoError(t, err)
	assert.False(t, plan.Empty())
}

func TestServiceRejectsEmptyIngredients(t *testing.T) {
	t.Parallel()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewService(nil, log)

	_, err := svc.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestParsePlanJSON(t *testing.T) {
	t.Parallel()
	raw := "```json\n{\"breakfast\": {\"recipe_name\": \"Oats\", \"steps\": [\"Boil.\"]}, \"lunch\": {}, \"dinner\": {}}\n```"
	plan, err := parsePlanJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "Oats", plan.Breakfast.Name)

	_, err = parsePlanJSON("not json at all")
	assert.Error(t, err)

	_, err = parsePlanJSON(`{"breakfast": {}, "lunch": {}, "dinner": {}}`)
	assert.Error(t, err, "an all-empty plan is unusable")
}
