package plangen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mealplan_delivery_service/internal/domain/ingredient"
	"mealplan_delivery_service/internal/domain/mealplan"

	"github.com/go-resty/resty/v2"
)

// RemoteClient calls a Gemini-style text-generation API and parses the
// returned JSON into a structured plan. The core only requires determinism
// of shape, not of content; anything malformed is an error for the caller to
// fall back on.
type RemoteClient struct {
	http   *resty.Client
	model  string
	apiKey string
}

func NewRemoteClient(baseURL, apiKey, model string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		model:  model,
		apiKey: apiKey,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *RemoteClient) Generate(ctx context.Context, items []ingredient.Ingredient) (*mealplan.Plan, error) {
	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: buildPrompt(items)}}}}}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("generation API returned HTTP %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("generation API returned no candidates")
	}

	plan, err := parsePlanJSON(out.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func buildPrompt(items []ingredient.Ingredient) string {
	var list strings.Builder
	for _, it := range items {
		fmt.Fprintf(&list, "%s: %g %s\n", it.Name, it.Quantity, it.Unit)
	}

	return fmt.Sprintf(`You are a helpful meal planner.
Given these ingredients:
%s
Generate a healthy one-day meal plan (Breakfast, Lunch, Dinner) using ONLY the available ingredients.
Minor pantry staples are allowed if necessary (salt, pepper, oil, basic spices).
Each recipe needs 10-16 granular steps starting with an action verb, with exact quantities and explicit timing where applicable.

Return strictly as JSON with this exact schema (no extra text, no markdown):
{"breakfast": {"recipe_name": "", "ingredients_used": [{"name": "", "quantity": 0, "unit": ""}], "steps": [], "prep_time": "", "cook_time": "", "calories": ""},
 "lunch": {"recipe_name": "", "ingredients_used": [{"name": "", "quantity": 0, "unit": ""}], "steps": [], "prep_time": "", "cook_time": "", "calories": ""},
 "dinner": {"recipe_name": "", "ingredients_used": [{"name": "", "quantity": 0, "unit": ""}], "steps": [], "prep_time": "", "cook_time": "", "calories": ""}}`, list.String())
}

// parsePlanJSON decodes the model's reply, stripping the markdown code fence
// models tend to wrap JSON in despite instructions.
func parsePlanJSON(text string) (*mealplan.Plan, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var plan mealplan.Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("generation API returned unparseable plan: %w", err)
	}
	if plan.Empty() {
		return nil, fmt.Errorf("generation API returned an empty plan")
	}
	return &plan, nil
}
