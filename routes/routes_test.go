package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"recircuit-api/middleware"
	"recircuit-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ideasReply = "```json\n" + `[
 {"title":"Keyboard Planter","description":"Grow herbs in a keyboard shell.","innovation_type":"Art & Decor",
  "difficulty":"Beginner","estimated_cost":12,"materials_needed":["keyboard","soil"],"tools_required":["screwdriver"],
  "time_estimate":"2 hours","sustainability_score":90,"reusability_score":80,"potential_value":"Desk decor",
  "safety_warnings":["Wash the keycaps"]},
 {"title":"Key Magnets","description":"Fridge magnets from keycaps."},
 {"title":"Cable Organizer","description":"Sort cables with a keyboard frame."}
]` + "\n```"

const stepsReply = `[{"title":"Strip the keyboard","description":"Remove every keycap.","duration":"20 min","tools_required":["keycap puller"],"safety_note":null}]`

type routeLLM struct {
	mu     sync.Mutex
	ideas  string
	steps  string
	err    error
	counts map[string]int
}

func (f *routeLLM) Chat(_ context.Context, req services.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	switch {
	case strings.Contains(req.UserText, "Generate 3 innovative project ideas"):
		f.counts["ideas"]++
		return f.ideas, f.err
	case strings.Contains(req.UserText, "step-by-step instructions"):
		f.counts["steps"]++
		return f.steps, f.err
	}
	f.counts["waste"]++
	return `{"waste_type":"keyboard"}`, f.err
}

func (f *routeLLM) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[kind]
}

func newTestRouter(t *testing.T, llm services.LLMClient, requireUser bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewMemoryStore()
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	SetupRoutes(router, Deps{
		Store:         store,
		Waste:         services.NewWasteService(store, llm),
		Innovations:   services.NewInnovationService(store, llm, nil),
		Saved:         services.NewSavedInnovationService(store),
		DefaultUserID: "default_user",
		RequireUserID: requireUser,
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(t, &routeLLM{}, false)

	w, body := doJSON(t, router, http.MethodGet, "/api/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ReCircuit API - Transform E-waste into Innovation", body["message"])

	w, body = doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeWasteEndpoint(t *testing.T) {
	router := newTestRouter(t, &routeLLM{}, false)

	w, body := doJSON(t, router, http.MethodPost, "/api/analyze-waste", map[string]string{"waste_name": "keyboard"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["waste_id"])
	assert.Equal(t, `{"waste_type":"keyboard"}`, body["waste_description"])
	assert.Equal(t, "text", body["identified_from"])

	w, body = doJSON(t, router, http.MethodPost, "/api/analyze-waste", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Either image or waste name is required", body["detail"])
}

func TestAnalyzeWasteLLMFailure(t *testing.T) {
	router := newTestRouter(t, &routeLLM{err: errors.New("upstream timeout")}, false)

	w, body := doJSON(t, router, http.MethodPost, "/api/analyze-waste", map[string]string{"waste_name": "keyboard"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["detail"], "upstream timeout")
}

func generate(t *testing.T, router *gin.Engine) []interface{} {
	t.Helper()
	w, body := doJSON(t, router, http.MethodPost, "/api/generate-innovations", map[string]interface{}{
		"waste_description": "old keyboard",
		"innovation_types":  []string{"art", "home"},
		"budget":            50,
		"skill_level":       "Beginner",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items, ok := body["innovations"].([]interface{})
	require.True(t, ok)
	return items
}

func TestGenerateThenDetailThenSave(t *testing.T) {
	llm := &routeLLM{ideas: ideasReply, steps: stepsReply}
	router := newTestRouter(t, llm, false)

	items := generate(t, router)
	require.Len(t, items, 3)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Keyboard Planter", first["title"])
	assert.Equal(t, "USD", first["currency"])
	assert.Empty(t, first["steps"])
	second := items[1].(map[string]interface{})
	assert.Equal(t, float64(70), second["sustainability_score"])
	assert.Equal(t, "Beginner", second["difficulty"])

	id := first["id"].(string)
	for i := 0; i < 2; i++ {
		w, detail := doJSON(t, router, http.MethodGet, "/api/innovation/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		steps := detail["steps"].([]interface{})
		require.Len(t, steps, 1)
		assert.Equal(t, float64(1), steps[0].(map[string]interface{})["step_number"])
	}
	assert.Equal(t, 1, llm.count("steps"))

	w, body := doJSON(t, router, http.MethodPost, "/api/save-innovation?innovation_id="+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Innovation saved successfully", body["message"])
	assert.NotEmpty(t, body["saved_id"])

	w, body = doJSON(t, router, http.MethodGet, "/api/saved-innovations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	saved := body["saved_innovations"].([]interface{})
	require.Len(t, saved, 1)
	entry := saved[0].(map[string]interface{})
	assert.Equal(t, "default_user", entry["user_id"])
	assert.Equal(t, "Keyboard Planter", entry["innovation"].(map[string]interface{})["title"])

	w, body = doJSON(t, router, http.MethodGet, "/api/saved-innovations?user_id=someone-else", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["saved_innovations"])
}

func TestGenerateFallbackAndValidation(t *testing.T) {
	router := newTestRouter(t, &routeLLM{ideas: "Sorry, I cannot help with that."}, false)

	items := generate(t, router)
	require.Len(t, items, 1)
	assert.Equal(t, "fallback", items[0].(map[string]interface{})["source"])

	w, body := doJSON(t, router, http.MethodPost, "/api/generate-innovations", map[string]interface{}{
		"waste_description": "old keyboard",
		"innovation_types":  []string{"art"},
		"skill_level":       "Beginner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["detail"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/generate-innovations", map[string]interface{}{
		"waste_description": "old keyboard",
		"innovation_types":  []string{"art"},
		"budget":            -1,
		"skill_level":       "Beginner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateWithNonFiniteNumbers(t *testing.T) {
	router := newTestRouter(t, &routeLLM{
		ideas: `[{"title":"X","estimated_cost":"NaN","sustainability_score":"Inf"}]`,
	}, false)

	items := generate(t, router)
	require.Len(t, items, 1)
	idea := items[0].(map[string]interface{})
	assert.Equal(t, "X", idea["title"])
	assert.Equal(t, float64(0), idea["estimated_cost"])
	assert.Equal(t, float64(70), idea["sustainability_score"])
	assert.Equal(t, "model", idea["source"])
}

func TestUnknownInnovation(t *testing.T) {
	router := newTestRouter(t, &routeLLM{}, false)

	w, body := doJSON(t, router, http.MethodGet, "/api/innovation/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Innovation not found", body["detail"])

	w, body = doJSON(t, router, http.MethodGet, "/api/innovation/%20", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Innovation not found", body["detail"])

	w, body = doJSON(t, router, http.MethodPost, "/api/save-innovation?innovation_id=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Innovation not found", body["detail"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/save-innovation", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequiredUserID(t *testing.T) {
	router := newTestRouter(t, &routeLLM{}, true)

	w, body := doJSON(t, router, http.MethodGet, "/api/saved-innovations", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user_id is required", body["detail"])

	req := httptest.NewRequest(http.MethodGet, "/api/saved-innovations", nil)
	req.Header.Set(middleware.UserIDHeader, "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"saved_innovations":[]}`, rec.Body.String())
}
