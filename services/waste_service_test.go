package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"recircuit-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest byte prefix mimetype recognises as PNG
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func newTestWasteService(llm LLMClient, store Store) *WasteService {
	svc := NewWasteService(store, llm)
	svc.now = fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return svc
}

func TestAnalyzeFromText(t *testing.T) {
	llm := newScriptedLLM()
	llm.waste = `{"waste_type":"laptop"}`
	store := NewMemoryStore()
	svc := newTestWasteService(llm, store)

	result, err := svc.Analyze(context.Background(), AnalyzeWasteInput{WasteName: " Old Laptop "})
	require.NoError(t, err)

	assert.NotEmpty(t, result.WasteID)
	assert.Equal(t, `{"waste_type":"laptop"}`, result.WasteDescription)
	assert.Equal(t, models.IdentifiedFromText, result.IdentifiedFrom)

	call := llm.lastCall()
	assert.Equal(t, classifySystemPrompt, call.SystemPrompt)
	assert.Contains(t, call.UserText, "Name: Old Laptop")
	assert.Contains(t, call.UserText, "Additional Info: None")
	assert.Nil(t, call.Image)

	rec, ok := store.waste[result.WasteID]
	require.True(t, ok)
	assert.Equal(t, result.WasteDescription, rec.Description)
}

func TestAnalyzeImageTakesPrecedence(t *testing.T) {
	llm := newScriptedLLM()
	llm.waste = "A cracked smartphone."
	svc := newTestWasteService(llm, NewMemoryStore())

	result, err := svc.Analyze(context.Background(), AnalyzeWasteInput{
		ImageBase64: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes),
		WasteName:   "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, models.IdentifiedFromImage, result.IdentifiedFrom)

	call := llm.lastCall()
	require.NotNil(t, call.Image)
	assert.Equal(t, "image/png", call.Image.MIMEType)
	assert.Equal(t, identifySystemPrompt, call.SystemPrompt)
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	llm := newScriptedLLM()
	svc := newTestWasteService(llm, NewMemoryStore())

	_, err := svc.Analyze(context.Background(), AnalyzeWasteInput{})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Either image or waste name is required", err.Error())
	assert.Empty(t, llm.calls)
}

func TestAnalyzeRejectsBadImage(t *testing.T) {
	svc := newTestWasteService(newScriptedLLM(), NewMemoryStore())

	_, err := svc.Analyze(context.Background(), AnalyzeWasteInput{ImageBase64: "%%%not-base64%%%"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Analyze(context.Background(), AnalyzeWasteInput{
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("just some text, not a picture")),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type failingWasteStore struct {
	*MemoryStore
}

func (failingWasteStore) CreateWasteRecord(context.Context, *models.WasteRecord) error {
	return errors.New("store unreachable")
}

func TestAnalyzePropagatesFailures(t *testing.T) {
	llm := newScriptedLLM()
	llm.err = errors.New("llm unreachable")
	svc := newTestWasteService(llm, NewMemoryStore())

	_, err := svc.Analyze(context.Background(), AnalyzeWasteInput{WasteName: "router"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "llm unreachable")

	llm = newScriptedLLM()
	svc = newTestWasteService(llm, failingWasteStore{NewMemoryStore()})
	_, err = svc.Analyze(context.Background(), AnalyzeWasteInput{WasteName: "router"})
	assert.EqualError(t, err, "store unreachable")
}
