package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{
		client: &client,
		model:  "claude-haiku-4-5-20251001",
	}
}

func anthropicReply(stopReason string, texts ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blocks := make([]map[string]any, 0, len(texts))
		for _, text := range texts {
			blocks = append(blocks, map[string]any{"type": "text", "text": text})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     blocks,
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stopReason,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicError(status int, kind string, header http.Header) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func profileRequest() Request {
	return Request{
		System:    "You are a 3D printing profile generator.",
		Messages:  []Message{{Role: RoleUser, Content: "Material: PLA Silk"}},
		MaxTokens: 256,
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("end_turn", `{"nozzle_temp":215,"bed_temp":60}`))

	resp, err := p.Generate(context.Background(), profileRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nozzle_temp":215,"bed_temp":60}`, string(resp.Content))
	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
}

func TestAnthropicProvider_OutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		schema     *Schema
		wantFormat bool
	}{
		{"closed schema", closedSchema(), true},
		{"open schema", &Schema{Name: "open-preset", Definition: map[string]any{"type": "object"}}, false},
		{"no schema", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			reply := anthropicReply("end_turn", `{"nozzle_temp":215,"bed_temp":60}`)
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&body)
				reply(w, r)
			})

			req := profileRequest()
			req.Schema = tt.schema
			_, err := p.Generate(context.Background(), req)
			require.NoError(t, err)

			cfg, ok := body["output_config"].(map[string]any)
			if !tt.wantFormat {
				assert.False(t, ok, "unexpected output_config: %v", body["output_config"])
				return
			}
			require.True(t, ok, "output_config missing")
			format, _ := cfg["format"].(map[string]any)
			assert.Equal(t, "json_schema", format["type"])
			schema, _ := format["schema"].(map[string]any)
			assert.Equal(t, false, schema["additionalProperties"])
			assert.ElementsMatch(t, []any{"nozzle_temp", "bed_temp"}, schema["required"])
		})
	}
}

func TestAnthropicProvider_JoinsTextBlocks(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("end_turn", `{"nozzle_temp":`, `230}`))

	resp, err := p.Generate(context.Background(), profileRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nozzle_temp":230}`, string(resp.Content))
}

func TestAnthropicProvider_EmptyContent(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("end_turn"))

	_, err := p.Generate(context.Background(), profileRequest())
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply("max_tokens", `{"nozzle_temp":21`))

	_, err := p.Generate(context.Background(), profileRequest())
	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
	assert.Equal(t, `{"nozzle_temp":21`, string(maxTok.Content))
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	t.Run("rate limit carries retry-after", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusTooManyRequests, "rate_limit_error",
			http.Header{"Retry-After": []string{"3"}}))

		_, err := p.Generate(context.Background(), profileRequest())
		var rl *ErrRateLimit
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 3*time.Second, rl.RetryAfter)
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusInternalServerError, "api_error", nil))

		_, err := p.Generate(context.Background(), profileRequest())
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})

	t.Run("bad request", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusBadRequest, "invalid_request_error", nil))

		_, err := p.Generate(context.Background(), profileRequest())
		var inv *ErrInvalidResponse
		assert.ErrorAs(t, err, &inv)
	})
}

func TestRetryAfter(t *testing.T) {
	header := func(v string) *http.Response {
		return &http.Response{Header: http.Header{"Retry-After": []string{v}}}
	}
	assert.Equal(t, time.Duration(0), retryAfter(nil))
	assert.Equal(t, 5*time.Second, retryAfter(header("5")))
	assert.Equal(t, time.Duration(0), retryAfter(header("Wed, 21 Oct 2015 07:28:00 GMT")))
	assert.Equal(t, time.Duration(0), retryAfter(header("-1")))
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-opus-4-1", "claude-opus-4-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, anthropicModels), tt.input)
	}
}
