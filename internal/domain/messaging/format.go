package messaging

import (
	"fmt"
	"strings"

	"mealplan_delivery_service/internal/domain/mealplan"
)

// FormatPlanMessage renders a day's plan as the WhatsApp message body:
// a greeting, one block per meal with the recipe name, ingredient lines and
// numbered steps, and a closing line.
func FormatPlanMessage(userName string, plan mealplan.Plan) string {
	if userName == "" {
		userName = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hey %s!\nHere is your recipe plan for today\n\n", userName)

	meals := []struct {
		label  string
		recipe mealplan.Recipe
	}{
		{"Breakfast", plan.Breakfast},
		{"Lunch", plan.Lunch},
		{"Dinner", plan.Dinner},
	}
	for _, m := range meals {
		if m.recipe.Name == "" {
			continue
		}
		fmt.Fprintf(&b, "*%s*: %s\n", m.label, m.recipe.Name)
		for _, ing := range m.recipe.IngredientsUsed {
			switch {
			case ing.Quantity > 0 && ing.Unit != "":
				fmt.Fprintf(&b, "- %s: %g %s\n", ing.Name, ing.Quantity, ing.Unit)
			case ing.Quantity > 0:
				fmt.Fprintf(&b, "- %s: %g\n", ing.Name, ing.Quantity)
			default:
				fmt.Fprintf(&b, "- %s\n", ing.Name)
			}
		}
		if len(m.recipe.Steps) > 0 {
			b.WriteString("\nSteps:\n")
			for i, step := range m.recipe.Steps {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Happy cooking!")
	return b.String()
}
