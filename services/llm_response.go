package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// extractJSONPayload pulls the body out of a markdown code fence. A fence
// labelled json wins over an unlabelled one; text without fences is
// returned trimmed.
func extractJSONPayload(reply string) string {
	text := strings.TrimSpace(reply)
	for _, fence := range []string{"```json", "```"} {
		if _, after, ok := strings.Cut(text, fence); ok {
			body, _, _ := strings.Cut(after, "```")
			return strings.TrimSpace(body)
		}
	}
	return text
}

// flexNumber accepts 12, 12.5, "12" and "$12.50". NaN and infinities are
// left unset so the field falls back to its default.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.assign(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	n.assign(f)
	return nil
}

func (n *flexNumber) assign(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	n.value, n.set = f, true
}

func (n flexNumber) floatOr(fallback float64) float64 {
	if !n.set {
		return fallback
	}
	return n.value
}

// intOr truncates toward zero; values outside the int32 range fall back.
func (n flexNumber) intOr(fallback int) int {
	if !n.set || n.value > math.MaxInt32 || n.value < math.MinInt32 {
		return fallback
	}
	return int(n.value)
}

type rawIdea struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	InnovationType      *string    `json:"innovation_type"`
	Difficulty          *string    `json:"difficulty"`
	EstimatedCost       flexNumber `json:"estimated_cost"`
	MaterialsNeeded     []string   `json:"materials_needed"`
	ToolsRequired       []string   `json:"tools_required"`
	TimeEstimate        *string    `json:"time_estimate"`
	SustainabilityScore flexNumber `json:"sustainability_score"`
	ReusabilityScore    flexNumber `json:"reusability_score"`
	PotentialValue      *string    `json:"potential_value"`
	SafetyWarnings      []string   `json:"safety_warnings"`
}

type rawStep struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Duration      *string  `json:"duration"`
	ToolsRequired []string `json:"tools_required"`
	SafetyNote    *string  `json:"safety_note"`
}

// decodeIdeas parses the idea-generation reply. ok is false when the reply
// is not a non-empty JSON array of idea objects.
func decodeIdeas(reply string) ([]rawIdea, bool) {
	var ideas []rawIdea
	if err := json.Unmarshal([]byte(extractJSONPayload(reply)), &ideas); err != nil {
		return nil, false
	}
	if len(ideas) == 0 {
		return nil, false
	}
	return ideas, true
}

// decodeSteps parses the step-generation reply the same way.
func decodeSteps(reply string) ([]rawStep, bool) {
	var steps []rawStep
	if err := json.Unmarshal([]byte(extractJSONPayload(reply)), &steps); err != nil {
		return nil, false
	}
	if len(steps) == 0 {
		return nil, false
	}
	return steps, true
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
