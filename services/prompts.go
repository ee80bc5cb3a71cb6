package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"recircuit-api/models"
)

// innovationTypeNames maps the category tags clients send to the names used
// in prompts. Unknown tags are passed through as-is.
var innovationTypeNames = map[string]string{
	"diy_tools":      "DIY Tools",
	"electronics":    "Electronics Projects",
	"home_utility":   "Home Utility Items",
	"creative_art":   "Creative/Art Projects",
	"eco_friendly":   "Eco-friendly Solutions",
	"small_business": "Small Business Ideas",
	"educational":    "Educational Models",
}

func innovationTypeLabels(tags []string) []string {
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		if name, ok := innovationTypeNames[t]; ok {
			labels = append(labels, name)
		} else {
			labels = append(labels, t)
		}
	}
	return labels
}

const (
	identifySystemPrompt = "You are an expert in identifying electronic waste and recyclable materials. " +
		"Analyze images and provide detailed descriptions of e-waste components."
	classifySystemPrompt = "You are an expert in electronic waste classification. " +
		"Provide detailed analysis of e-waste based on text descriptions."
	ideasSystemPrompt = "You are an expert in upcycling and creating innovative projects from e-waste. " +
		"You help people transform electronic waste into useful, creative, and sustainable projects."
	stepsSystemPrompt = "You are an expert instructor who creates clear, detailed step-by-step guides for DIY projects."
)

const identifyImagePrompt = `Analyze this image and identify the e-waste. Provide:
1. Type of e-waste (e.g., old mobile phone, broken laptop, circuit board)
2. Main components visible
3. Condition assessment
4. Potential materials that can be reused

Format your response as JSON with keys: waste_type, components, condition, reusable_materials`

func buildIdentifyImageRequest(img *ImageInput) ChatRequest {
	return ChatRequest{
		SystemPrompt: identifySystemPrompt,
		UserText:     identifyImagePrompt,
		Image:        img,
	}
}

func buildClassifyTextRequest(name, description string) ChatRequest {
	if strings.TrimSpace(description) == "" {
		description = "None"
	}
	text := fmt.Sprintf(`Analyze this e-waste description:
Name: %s
Additional Info: %s

Provide:
1. Detailed waste type classification
2. Common components in this type of e-waste
3. Typical condition/state
4. Reusable materials and components

Format as JSON with keys: waste_type, components, condition, reusable_materials`, name, description)

	return ChatRequest{SystemPrompt: classifySystemPrompt, UserText: text}
}

func buildIdeasRequest(in *GenerateInnovationsInput) ChatRequest {
	types := strings.Join(innovationTypeLabels(in.InnovationTypes), ", ")
	text := fmt.Sprintf(`Generate 3 innovative project ideas from this e-waste:

E-waste: %s
Budget: %s %s
Skill Level: %s
Innovation Types: %s

For each idea, provide:
1. Creative project title
2. Detailed description (2-3 sentences)
3. Innovation type (from the requested types)
4. Difficulty level (Beginner/Intermediate/Advanced)
5. Estimated cost (must be within budget)
6. List of materials needed (5-7 items)
7. List of tools required (3-5 items)
8. Time estimate (e.g., "2-3 hours", "1 day")
9. Sustainability score (1-100)
10. Reusability score (1-100)
11. Potential value or utility description
12. 2-3 important safety warnings

Return ONLY a valid JSON array with 3 objects. Each object must have all these fields:
[{
    "title": "...",
    "description": "...",
    "innovation_type": "...",
    "difficulty": "...",
    "estimated_cost": 0.0,
    "materials_needed": [...],
    "tools_required": [...],
    "time_estimate": "...",
    "sustainability_score": 0,
    "reusability_score": 0,
    "potential_value": "...",
    "safety_warnings": [...]
}]

Make ideas practical, creative, and achievable within the budget and skill level.`,
		in.WasteDescription,
		formatAmount(in.Budget),
		in.Currency,
		in.SkillLevel,
		types,
	)

	return ChatRequest{SystemPrompt: ideasSystemPrompt, UserText: text}
}

func buildStepsRequest(inv *models.Innovation) ChatRequest {
	text := fmt.Sprintf(`Create detailed step-by-step instructions for this project:

Project: %s
Description: %s
Difficulty: %s
Materials: %s
Tools: %s

Provide 5-8 clear steps. For each step include:
1. Step title (brief, action-oriented)
2. Detailed description (2-3 sentences)
3. Duration estimate
4. Tools needed for this step
5. Safety note if applicable

Return ONLY a valid JSON array:
[{
    "title": "...",
    "description": "...",
    "duration": "...",
    "tools_required": [...],
    "safety_note": "..."
}]`,
		inv.Title,
		inv.Description,
		inv.Difficulty,
		strings.Join(inv.MaterialsNeeded, ", "),
		strings.Join(inv.ToolsRequired, ", "),
	)

	return ChatRequest{SystemPrompt: stepsSystemPrompt, UserText: text}
}

// formatAmount renders a budget with at most two decimals and no trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
