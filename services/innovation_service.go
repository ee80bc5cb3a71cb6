package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recircuit-api/models"
	"recircuit-api/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const maxIdeas = 3

// stepsGenerationTimeout bounds one LLM step generation after any wait on
// another instance's marker.
const stepsGenerationTimeout = 3 * time.Minute

type GenerateInnovationsInput struct {
	WasteID          string
	WasteDescription string
	InnovationTypes  []string
	Budget           float64
	Currency         string
	SkillLevel       string
}

type GenerateInnovationsResult struct {
	Innovations []models.Innovation `json:"innovations"`
	// Source is "fallback" when the model's reply could not be parsed.
	Source string `json:"source"`
}

type InnovationService struct {
	store Store
	llm   LLMClient
	lock  StepLock
	group singleflight.Group

	pollInterval time.Duration
	now          func() time.Time
}

func NewInnovationService(store Store, llm LLMClient, lock StepLock) *InnovationService {
	if lock == nil {
		lock = NewLocalStepLock(2 * time.Minute)
	}
	return &InnovationService{
		store:        store,
		llm:          llm,
		lock:         lock,
		pollInterval: 500 * time.Millisecond,
		now:          time.Now,
	}
}

// Generate asks the model for three project ideas and stores each one with
// an empty build guide. Unparseable replies degrade to a single fallback idea.
func (s *InnovationService) Generate(ctx context.Context, in GenerateInnovationsInput) (*GenerateInnovationsResult, error) {
	in.WasteDescription = utils.SanitizeInput(in.WasteDescription)
	in.SkillLevel = utils.SanitizeInput(in.SkillLevel)
	in.Currency = strings.TrimSpace(in.Currency)
	if in.Currency == "" {
		in.Currency = "USD"
	}
	switch {
	case in.WasteDescription == "":
		return nil, invalidInput("waste_description is required")
	case in.SkillLevel == "":
		return nil, invalidInput("skill_level is required")
	case in.Budget < 0:
		return nil, invalidInput("budget must not be negative")
	}

	reply, err := s.llm.Chat(ctx, buildIdeasRequest(&in))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("idea generation failed")
		return nil, fmt.Errorf("failed to generate innovations: %w", err)
	}

	source := models.SourceModel
	ideas, ok := decodeIdeas(reply)
	if !ok {
		log.Ctx(ctx).Warn().Int("reply_len", len(reply)).Msg("idea reply was not valid JSON, using fallback idea")
		ideas = []rawIdea{fallbackIdea(&in)}
		source = models.SourceFallback
	}
	if len(ideas) > maxIdeas {
		ideas = ideas[:maxIdeas]
	}

	createdAt := s.now().UTC()
	items := make([]models.Innovation, 0, len(ideas))
	for _, idea := range ideas {
		items = append(items, models.Innovation{
			ID:                  uuid.NewString(),
			WasteID:             in.WasteID,
			WasteDescription:    in.WasteDescription,
			Title:               stringOr(idea.Title, "Unnamed Project"),
			Description:         stringOr(idea.Description, ""),
			InnovationType:      stringOr(idea.InnovationType, ""),
			Difficulty:          stringOr(idea.Difficulty, in.SkillLevel),
			EstimatedCost:       idea.EstimatedCost.floatOr(0),
			Currency:            in.Currency,
			MaterialsNeeded:     models.StringList(idea.MaterialsNeeded),
			ToolsRequired:       models.StringList(idea.ToolsRequired),
			TimeEstimate:        stringOr(idea.TimeEstimate, "Unknown"),
			Steps:               models.StepList{},
			SustainabilityScore: idea.SustainabilityScore.intOr(70),
			ReusabilityScore:    idea.ReusabilityScore.intOr(65),
			PotentialValue:      stringOr(idea.PotentialValue, ""),
			SafetyWarnings:      models.StringList(idea.SafetyWarnings),
			Source:              source,
			CreatedAt:           createdAt,
		})
	}

	if err := s.store.CreateInnovations(ctx, items); err != nil {
		return nil, err
	}

	return &GenerateInnovationsResult{Innovations: items, Source: source}, nil
}

func fallbackIdea(in *GenerateInnovationsInput) rawIdea {
	innovationType := "DIY Project"
	if labels := innovationTypeLabels(in.InnovationTypes); len(labels) > 0 && strings.TrimSpace(labels[0]) != "" {
		innovationType = strings.TrimSpace(labels[0])
	}
	str := func(v string) *string { return &v }
	num := func(v float64) flexNumber { return flexNumber{value: v, set: true} }

	return rawIdea{
		Title:               str("Creative Upcycling Project"),
		Description:         str("Transform your e-waste into something useful"),
		InnovationType:      str(innovationType),
		Difficulty:          str(in.SkillLevel),
		EstimatedCost:       num(in.Budget * 0.7),
		MaterialsNeeded:     []string{"E-waste components", "Basic tools", "Adhesive"},
		ToolsRequired:       []string{"Screwdriver", "Pliers", "Wire cutters"},
		TimeEstimate:        str("2-3 hours"),
		SustainabilityScore: num(75),
		ReusabilityScore:    num(70),
		PotentialValue:      str("Functional and eco-friendly"),
		SafetyWarnings:      []string{"Handle sharp components carefully", "Work in ventilated area"},
	}
}

// GetDetail returns an innovation, generating its build guide on the first
// fetch. Concurrent first fetches share one LLM call.
func (s *InnovationService) GetDetail(ctx context.Context, id string) (*models.Innovation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("innovation with blank id: %w", ErrNotFound)
	}

	inv, err := s.store.FindInnovation(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.HasSteps() {
		return inv, nil
	}

	// The shared call outlives any single caller's cancellation.
	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		genCtx, cancel := detachedContext(ctx, s.lock.TTL()+stepsGenerationTimeout)
		defer cancel()
		return s.completeSteps(genCtx, id)
	})
	if err != nil {
		return nil, err
	}
	result := *v.(*models.Innovation)
	return &result, nil
}

func (s *InnovationService) completeSteps(ctx context.Context, id string) (*models.Innovation, error) {
	release, acquired, err := s.lock.Acquire(ctx, id)
	if err != nil {
		// Without the marker the version check still keeps the write single.
		log.Ctx(ctx).Warn().Err(err).Str("innovation_id", id).Msg("step lock unavailable")
		acquired, release = true, func() {}
	}

	if acquired {
		defer release()
	} else {
		inv, err := s.waitForSteps(ctx, id, s.lock.TTL())
		if err != nil {
			return nil, err
		}
		if inv.HasSteps() {
			return inv, nil
		}
		log.Ctx(ctx).Warn().Str("innovation_id", id).Msg("step generation marker expired, generating locally")
	}

	inv, err := s.store.FindInnovation(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.HasSteps() {
		return inv, nil
	}

	steps, source, err := s.generateSteps(ctx, inv)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateInnovationSteps(ctx, id, inv.StepsVersion, steps, source)
	if err != nil {
		return nil, err
	}
	if !updated {
		log.Ctx(ctx).Info().Str("innovation_id", id).Msg("steps written by another request, using stored copy")
		return s.store.FindInnovation(ctx, id)
	}

	inv.Steps = steps
	inv.StepsSource = source
	inv.StepsVersion++
	return inv, nil
}

// waitForSteps polls until another holder writes steps or maxWait elapses.
// The last read is returned either way.
func (s *InnovationService) waitForSteps(ctx context.Context, id string, maxWait time.Duration) (*models.Innovation, error) {
	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		inv, err := s.store.FindInnovation(ctx, id)
		if err != nil {
			return nil, err
		}
		if inv.HasSteps() || !time.Now().Before(deadline) {
			return inv, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *InnovationService) generateSteps(ctx context.Context, inv *models.Innovation) (models.StepList, string, error) {
	reply, err := s.llm.Chat(ctx, buildStepsRequest(inv))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("innovation_id", inv.ID).Msg("step generation failed")
		return nil, "", fmt.Errorf("failed to generate steps: %w", err)
	}

	source := models.SourceModel
	raw, ok := decodeSteps(reply)
	if !ok {
		log.Ctx(ctx).Warn().Str("innovation_id", inv.ID).Msg("step reply was not valid JSON, using fallback step")
		raw = []rawStep{fallbackStep()}
		source = models.SourceFallback
	}

	steps := make(models.StepList, 0, len(raw))
	for i, r := range raw {
		n := i + 1
		steps = append(steps, models.Step{
			StepNumber:    n,
			Title:         stringOr(r.Title, fmt.Sprintf("Step %d", n)),
			Description:   stringOr(r.Description, ""),
			Duration:      stringOr(r.Duration, "Variable"),
			ToolsRequired: models.StringList(r.ToolsRequired),
			SafetyNote:    r.SafetyNote,
		})
	}
	return steps, source, nil
}

func fallbackStep() rawStep {
	str := func(v string) *string { return &v }
	return rawStep{
		Title:         str("Prepare Materials"),
		Description:   str("Gather all required materials and tools"),
		Duration:      str("10 minutes"),
		ToolsRequired: []string{"All listed tools"},
		SafetyNote:    str("Ensure workspace is clean and organized"),
	}
}

type BackfillSummary struct {
	Scanned   int
	Completed int
	Failed    int
}

// BackfillSteps generates build guides for innovations nobody has opened
// yet, oldest first.
func (s *InnovationService) BackfillSteps(ctx context.Context, limit int) (*BackfillSummary, error) {
	items, err := s.store.ListInnovationsWithoutSteps(ctx, limit)
	if err != nil {
		return nil, err
	}

	summary := &BackfillSummary{Scanned: len(items)}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if _, err := s.GetDetail(ctx, item.ID); err != nil {
			summary.Failed++
			log.Ctx(ctx).Error().Err(err).Str("innovation_id", item.ID).Msg("backfill failed")
			continue
		}
		summary.Completed++
	}
	return summary, nil
}
