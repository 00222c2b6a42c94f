package plangen

import (
	"fmt"
	"strings"

	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/mealplan"
)

// BuildBasicPlan assembles a deterministic meal plan from the ingredient set
// alone. It is the fallback when the remote model is unavailable or returns
// an unusable shape: plain but always well-formed.
func BuildBasicPlan(items []ingredient.Ingredient) mealplan.Plan {
	return mealplan.Plan{
		Breakfast: basicRecipe("Breakfast", items),
		Lunch:     basicRecipe("Lunch", items),
		Dinner:    basicRecipe("Dinner", items),
	}
}

func basicRecipe(mealLabel string, items []ingredient.Ingredient) mealplan.Recipe {
	used := items
	if len(used) > 6 {
		used = used[:6]
	}

	lines := make([]mealplan.IngredientLine, 0, len(used))
	names := make(map[string]bool, len(used))
	for _, it := range used {
		lines = append(lines, mealplan.IngredientLine{
			Name:     it.Name,
			Quantity: it.Quantity,
			Unit:     it.Unit,
		})
		names[strings.ToLower(strings.TrimSpace(it.Name))] = true
	}

	steps := []string{"Set out a cutting board, knife, mixing bowl, pot, pan and spatula."}
	for _, it := range used {
		steps = append(steps, prepStep(it))
	}
	if names["rice"] {
		steps = append(steps,
			"Boil 4 cups of water in a pot. Add the rinsed rice and simmer on low for 12 minutes.",
			"Turn off the heat, cover, and let the rice rest for 5 minutes. Fluff with a fork.")
	}
	if names["chicken"] {
		steps = append(steps, "Heat 1 tbsp oil in a pan over medium. Add the chicken and saute 6-8 minutes until cooked through.")
	}
	if names["egg"] || names["eggs"] {
		steps = append(steps, "Grease a pan lightly. Pour in the whisked eggs and scramble for 2-3 minutes until softly set.")
	}
	steps = append(steps,
		"Combine everything in a large bowl and toss gently.",
		"Season with a pinch of salt and pepper. Taste and adjust.",
		"Serve warm. Enjoy!")

	return mealplan.Recipe{
		Name:            basicTitle(mealLabel, names),
		IngredientsUsed: lines,
		Steps:           steps,
		PrepTime:        "10 mins",
		CookTime:        "20 mins",
		Calories:        "~400 kcal",
	}
}

func basicTitle(mealLabel string, names map[string]bool) string {
	switch {
	case names["chicken"] && names["rice"]:
		return fmt.Sprintf("Hearty Chicken & Rice %s Bowl", mealLabel)
	case (names["egg"] || names["eggs"]) && (names["tomato"] || names["tomatoes"]):
		return fmt.Sprintf("Egg & Tomato %s Skillet", mealLabel)
	default:
		return fmt.Sprintf("Simple %s Bowl", mealLabel)
	}
}

func prepStep(it ingredient.Ingredient) string {
	name := strings.ToLower(strings.TrimSpace(it.Name))
	q := strings.TrimSpace(fmt.Sprintf("%g %s", it.Quantity, it.Unit))
	switch name {
	case "rice":
		return fmt.Sprintf("Rinse %s rice in a strainer for 60 seconds, then set aside.", q)
	case "chicken":
		return fmt.Sprintf("Cut %s chicken into bite-sized pieces on a cutting board.", q)
	case "egg", "eggs":
		return fmt.Sprintf("Crack %g egg(s) into a bowl and whisk vigorously for 30 seconds.", it.Quantity)
	case "tomato", "tomatoes":
		return fmt.Sprintf("Wash %s tomatoes and dice into 1 cm pieces.", q)
	default:
		return fmt.Sprintf("Wash and chop %s %s on a cutting board.", q, name)
	}
}
