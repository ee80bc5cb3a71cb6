package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientChat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1/", Timeout: time.Second})
	reply, err := client.Chat(context.Background(), ChatRequest{
		SystemPrompt: "be brief",
		UserText:     "what is this?",
		Image:        &ImageInput{Data: []byte{1, 2, 3}, MIMEType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "[]", reply)

	assert.Equal(t, defaultOpenAIModel, got["model"])
	messages := got["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	parts := messages[1].(map[string]interface{})["content"].([]interface{})
	require.Len(t, parts, 2)
	image := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(image["url"].(string), "data:image/png;base64,AQID"))
}

func TestOpenAIClientErrors(t *testing.T) {
	status := http.StatusTooManyRequests
	body := `{"error":{"message":"slow down"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := client.Chat(context.Background(), ChatRequest{UserText: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")

	status = http.StatusOK
	_, err = client.Chat(context.Background(), ChatRequest{UserText: "hi"})
	assert.EqualError(t, err, "llm error: slow down")

	body = `{"choices":[]}`
	_, err = client.Chat(context.Background(), ChatRequest{UserText: "hi"})
	assert.EqualError(t, err, "llm returned no choices")
}
