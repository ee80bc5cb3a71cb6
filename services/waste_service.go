package services

import (
	"context"
	"fmt"
	"time"

	"recircuit-api/models"
	"recircuit-api/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AnalyzeWasteInput struct {
	ImageBase64      string
	WasteName        string
	WasteDescription string
}

type AnalyzeWasteResult struct {
	WasteID          string `json:"waste_id"`
	WasteDescription string `json:"waste_description"`
	IdentifiedFrom   string `json:"identified_from"`
}

type WasteService struct {
	store Store
	llm   LLMClient
	now   func() time.Time
}

func NewWasteService(store Store, llm LLMClient) *WasteService {
	return &WasteService{store: store, llm: llm, now: time.Now}
}

// Analyze identifies e-waste from an image or, failing that, from a name and
// description. The model's prose is cached verbatim.
func (s *WasteService) Analyze(ctx context.Context, in AnalyzeWasteInput) (*AnalyzeWasteResult, error) {
	imageB64 := utils.SanitizeInput(in.ImageBase64)
	name := utils.SanitizeInput(in.WasteName)

	var (
		req    ChatRequest
		source string
	)
	switch {
	case imageB64 != "":
		data, mimeType, err := utils.DecodeImageBase64(imageB64)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		req = buildIdentifyImageRequest(&ImageInput{Data: data, MIMEType: mimeType})
		source = models.IdentifiedFromImage
	case name != "":
		req = buildClassifyTextRequest(name, utils.SanitizeInput(in.WasteDescription))
		source = models.IdentifiedFromText
	default:
		return nil, invalidInput("Either image or waste name is required")
	}

	reply, err := s.llm.Chat(ctx, req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("identified_from", source).Msg("waste identification failed")
		return nil, fmt.Errorf("failed to identify waste: %w", err)
	}

	rec := &models.WasteRecord{
		ID:             uuid.NewString(),
		Description:    reply,
		IdentifiedFrom: source,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.CreateWasteRecord(ctx, rec); err != nil {
		return nil, err
	}

	return &AnalyzeWasteResult{
		WasteID:          rec.ID,
		WasteDescription: rec.Description,
		IdentifiedFrom:   rec.IdentifiedFrom,
	}, nil
}
