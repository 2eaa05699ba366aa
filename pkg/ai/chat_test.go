package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnquangdev/l10-platform/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteJSON(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]string{
					"role":    "assistant",
					"content": `{"summary":"ok","highlights":["a"]}`,
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewChatClient(&config.LLMConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "test-model"})
	require.True(t, client.Configured())

	content, err := client.CompleteJSON(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","highlights":["a"]}`, content)

	assert.Equal(t, "test-model", got["model"])
	format, ok := got["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestCompleteJSONNotConfigured(t *testing.T) {
	client := NewChatClient(&config.LLMConfig{Model: "m"})
	assert.False(t, client.Configured())

	_, err := client.CompleteJSON(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
