package narrator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agi_race/narrator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Generate(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, validReply, &body)
	gen := narrator.NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini", 0.8)

	out, err := gen.Generate(context.Background(), "prompt text")

	require.NoError(t, err)
	assert.JSONEq(t, validReply, out)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.InDelta(t, 0.8, body["temperature"], 0.0001)

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "game_state", schema["name"])
	assert.Equal(t, true, schema["strict"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "prompt text", messages[0].(map[string]any)["content"])
}

func TestOpenAI_GenerateEmpty(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, "   ", &body)
	gen := narrator.NewOpenAI("test-key", srv.URL+"/v1", "gpt-4o-mini", 0.8)

	_, err := gen.Generate(context.Background(), "prompt text")

	assert.ErrorIs(t, err, narrator.ErrEmptyReply)
}

func TestSchemas_RequireEveryField(t *testing.T) {
	g := narrator.GeminiSchema()
	assert.ElementsMatch(t, []string{"storyText", "resources", "choices", "isGameOver", "outcomeText", "feedback"}, g.Required)
	assert.ElementsMatch(t, []string{"compute", "talent", "funding", "publicTrust", "aiProgress"}, g.Properties["resources"].Required)
	assert.Equal(t, []string{"id", "text"}, g.Properties["choices"].Items.Required)

	o := narrator.OpenAISchema()
	raw, err := json.Marshal(&o)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "object", decoded["type"])
	assert.Len(t, decoded["required"], 6)
}
