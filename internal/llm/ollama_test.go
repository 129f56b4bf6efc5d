package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOllamaProvider(t *testing.T, handler http.HandlerFunc) *OllamaProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOllamaProvider(OllamaConfig{BaseURL: server.URL + "/", Model: "llama2"})
	require.NoError(t, err)
	return p
}

func TestOllamaProvider_StreamedChunks(t *testing.T) {
	var got ollamaChatRequest
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/x-ndjson")
		io.WriteString(w, `{"model":"llama2","message":{"role":"assistant","content":"{\"nozzle_"},"done":false}`+"\n")
		io.WriteString(w, "this line is not json\n")
		io.WriteString(w, "\n")
		io.WriteString(w, `{"model":"llama2","message":{"role":"assistant","content":"temp\": 215"},"done":false}`+"\n")
		io.WriteString(w, `{"model":"llama2","done":false}`+"\n")
		io.WriteString(w, `{"model":"llama2","message":{"role":"assistant","content":"}"},"done":true,"done_reason":"stop","prompt_eval_count":40,"eval_count":12}`+"\n")
	}

	p := newTestOllamaProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:      "sys",
		Messages:    []Message{{Role: RoleUser, Content: "make a profile"}},
		Temperature: 0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"nozzle_temp": 215}`, string(resp.Content))
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 12, resp.Usage.OutputTokens)
	assert.Equal(t, 52, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "llama2", resp.Model)

	assert.Equal(t, "llama2", got.Model)
	assert.Equal(t, 0.3, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, ollamaMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, ollamaMessage{Role: "user", Content: "make a profile"}, got.Messages[1])
	assert.Nil(t, got.Format)
}

func TestOllamaProvider_SingleResponse(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model":   "llama2",
			"message": map[string]any{"role": "assistant", "content": `{"bed_temp":70}`},
			"done":    true,
		})
	}

	p := newTestOllamaProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"bed_temp":70}`, string(resp.Content))
}

func TestOllamaProvider_NoFragmentsReturnsRawBody(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"nozzle_temp": 230}`)
	}

	p := newTestOllamaProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"nozzle_temp": 230}`, string(resp.Content))
}

func TestOllamaProvider_LengthStopReason(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":{"content":"{"},"done":true,"done_reason":"length"}`+"\n")
	}

	p := newTestOllamaProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)
}

func TestOllamaProvider_SchemaSentAsFormatAndValidated(t *testing.T) {
	var got ollamaChatRequest
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		io.WriteString(w, `{"message":{"content":"{\"name\":\"x\"}"},"done":true}`+"\n")
	}

	p := newTestOllamaProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Schema: testSchema()})
	require.Error(t, err)

	var inv *ErrInvalidResponse
	require.True(t, errors.As(err, &inv), "expected ErrInvalidResponse, got %T", err)
	assert.Equal(t, `{"name":"x"}`, string(inv.Content))
	assert.Equal(t, "object", got.Format["type"])
}

func TestOllamaProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    string
		rateLimit bool
		wait      time.Duration
	}{
		{"rate limited", http.StatusTooManyRequests, "2", true, 2 * time.Second},
		{"server error", http.StatusInternalServerError, "", false, 0},
		{"model missing", http.StatusNotFound, "", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("Retry-After", tt.header)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, `{"error":"nope"}`)
			}
			p := newTestOllamaProvider(t, handler)
			_, err := p.Generate(context.Background(), Request{})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), "nope"))

			if tt.rateLimit {
				var rl *ErrRateLimit
				require.True(t, errors.As(err, &rl), "expected ErrRateLimit, got %T", err)
				assert.Equal(t, tt.wait, rl.RetryAfter)
				return
			}
			var unavail *ErrProviderUnavailable
			require.True(t, errors.As(err, &unavail), "expected ErrProviderUnavailable, got %T", err)
		})
	}
}

func TestOllamaProvider_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p, err := NewOllamaProvider(OllamaConfig{BaseURL: url, Model: "llama2"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail), "expected ErrProviderUnavailable, got %T", err)
}

func TestOllamaProvider_ContextDeadline(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}
	p := newTestOllamaProvider(t, handler)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewOllamaProvider(t *testing.T) {
	p, err := NewOllamaProvider(OllamaConfig{Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/chat", p.endpoint)
	assert.Equal(t, "mistral", p.ModelID())

	_, err = NewOllamaProvider(OllamaConfig{BaseURL: "http://x"})
	require.Error(t, err)
}
