package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-pro"

var (
	// ErrInvalidPlan is returned when the model's answer is not valid JSON
	ErrInvalidPlan = errors.New("planner returned invalid JSON")
	// ErrPlannerNotConfigured is returned when no Gemini API key was provided
	ErrPlannerNotConfigured = errors.New("trip planner is not configured")
)

// PlanRequest holds the traveller's preferences for a generated itinerary
type PlanRequest struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Budget      float64  `json:"budget"`
	Currency    string   `json:"currency"`
	TravelType  string   `json:"travelType"`
	Preferences []string `json:"preferences"`
	TripName    string   `json:"tripName"`
}

// TextGenerator produces text for a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator is a TextGenerator backed by the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini client. model defaults to gemini-1.5-pro.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrPlannerNotConfigured
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String(), nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// PlannerService turns travel preferences into a trip document
type PlannerService struct {
	generator TextGenerator
}

// NewPlannerService creates a PlannerService. generator may be nil, in which
// case every call fails with ErrPlannerNotConfigured.
func NewPlannerService(generator TextGenerator) *PlannerService {
	return &PlannerService{generator: generator}
}

// GeneratePlan asks the model for an itinerary and returns it as raw JSON
func (s *PlannerService) GeneratePlan(ctx context.Context, req PlanRequest) (json.RawMessage, error) {
	if s.generator == nil {
		return nil, ErrPlannerNotConfigured
	}
	text, err := s.generator.GenerateText(ctx, BuildTripPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	plan, err := CleanPlanJSON(text)
	if err != nil {
		log.Printf("Invalid JSON from planner: %v", err)
		return nil, err
	}
	return plan, nil
}

var (
	codeFence = regexp.MustCompile("```(?:json)?")
	newlines  = regexp.MustCompile(`[\r\n]+`)
	bareKey   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// CleanPlanJSON strips markdown fences and line breaks from a model answer
// and, if that is still not JSON, quotes bare object keys.
func CleanPlanJSON(text string) (json.RawMessage, error) {
	cleaned := codeFence.ReplaceAllString(text, "")
	cleaned = newlines.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if !json.Valid([]byte(cleaned)) {
		cleaned = bareKey.ReplaceAllString(cleaned, `$1"$2":`)
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, ErrInvalidPlan
	}
	return json.RawMessage(cleaned), nil
}

// BuildTripPrompt renders the itinerary prompt for req
func BuildTripPrompt(req PlanRequest) string {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	interests := strings.Join(req.Preferences, ", ")
	if interests == "" {
		interests = "None"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan a travel itinerary from %s to %s\n", req.From, req.To)
	fmt.Fprintf(&b, "Travel dates: from %s to %s\n", req.StartDate, req.EndDate)
	fmt.Fprintf(&b, "Total budget: %v %s\n", req.Budget, currency)
	fmt.Fprintf(&b, "Preferred mode of travel: %s\n", req.TravelType)
	fmt.Fprintf(&b, "Traveler's interests: %s\n", interests)
	fmt.Fprintf(&b, "Trip name: %s\n\n", req.TripName)

	b.WriteString("Please follow these guidelines:\n\n")
	fmt.Fprintf(&b, `1. Provide a travel summary object named "transport_info" that estimates distance and travel time from "%s" to "%s" using each transportation method: "car", "bus", "train", "flight".
   - If a method is unavailable, use null.
   - Format:
     "transport_info": {
       "car": { "distance": "xxx km", "duration": "x hr" } or null,
       "bus": { "distance": "xxx km", "duration": "x hr" } or null,
       "train": { "distance": "xxx km", "duration": "x hr" } or null,
       "flight": { "distance": "xxx km", "duration": "x hr" } or null
     }
`, req.From, req.To)
	b.WriteString(`
2. Divide the trip into daily plans (Day 1, Day 2, etc.) and return them as an array under the property name "days".

3. For each day, include:
   - date in YYYY-MM-DD format
   - a short title describing the theme of the day
   - a brief narrative (1-2 sentences) setting the mood of the day

4. For each day, list the places under the key "locations". Do not use any other key name.
   - name: name of the place
   - time: estimated time spent (e.g. "09:00-10:30")
   - transport: generic transportation terms only, such as "walk", "motorcycle taxi", "local taxi", "public van". Do not mention brands, companies or named services.
   - estimated_cost: approximate cost of the visit (entrance fee, transportation)
   - currency: use the specified currency
   - category: type of place (e.g. temple, cafe, nature, shopping)
   - google_maps_url: link to Google Maps
   - lat and lng: coordinates, if available
   - distance_to_next: distance to the next place (e.g. "3 km")

5. Include a list of 1-3 useful travel tips for each day under "daily_tips".

6. Calculate and include:
   - total_day_cost: total cost of each day
   - total_trip_cost: total for the whole trip

7. Include a trip name under the key "tripName" that briefly summarizes the theme of the trip.

Escape all double quotes in strings correctly.

IMPORTANT:
You MUST return ONLY a valid JSON object as the entire response.
- Do not include any explanation, greeting, apology or text outside of the JSON.
- Do not include markdown or code blocks.
- The response must start with "{" and end with "}".
- If you cannot produce valid JSON for any reason, reply with an empty JSON object "{}" and nothing else.
`)
	return b.String()
}
