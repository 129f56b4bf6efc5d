package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	ollamaChatPath       = "/api/chat"

	// maxOllamaResponseBytes caps how much of a streamed answer is buffered.
	maxOllamaResponseBytes = 4 << 20
)

// OllamaProvider implements Provider against a local Ollama server's chat
// endpoint. Ollama streams its answer as newline-delimited JSON chunks, each
// carrying a message.content fragment; the fragments are joined in order.
type OllamaProvider struct {
	client   *http.Client
	endpoint string
	model    string
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOllamaBaseURL
	}

	return &OllamaProvider{
		client:   &http.Client{},
		endpoint: strings.TrimRight(base, "/") + ollamaChatPath,
		model:    cfg.Model,
	}, nil
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model       string          `json:"model"`
	Messages    []ollamaMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	Format      map[string]any  `json:"format,omitempty"`
}

// ollamaChunk is one line of a chat response. Content is a pointer so a
// chunk without a content key can be told apart from an empty fragment.
type ollamaChunk struct {
	Model   string `json:"model"`
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxOllamaResponseBytes))
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read ollama response: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, mapOllamaStatus(httpResp, raw)
	}

	resp := p.assemble(raw)

	if req.Schema != nil {
		if err := validateResponse(req.Schema, resp.Content); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

func (p *OllamaProvider) buildRequest(req Request) ollamaChatRequest {
	out := ollamaChatRequest{
		Model:       p.model,
		Temperature: req.Temperature,
	}
	if req.System != "" {
		out.Messages = append(out.Messages, ollamaMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		out.Messages = append(out.Messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}
	if req.Schema != nil {
		out.Format = req.Schema.Definition
	}
	return out
}

// assemble joins the content fragments of every parseable chunk. Lines that
// are not chunks are skipped. When no fragment is found at all, the whole
// body is returned as the answer.
func (p *OllamaProvider) assemble(raw []byte) *Response {
	var (
		text  strings.Builder
		found bool
		resp  = &Response{Model: p.model, StopReason: "end"}
	)

	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), maxOllamaResponseBytes)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}
		if chunk.Message != nil && chunk.Message.Content != nil {
			text.WriteString(*chunk.Message.Content)
			found = true
		}
		if chunk.Model != "" {
			resp.Model = chunk.Model
		}
		if chunk.Done {
			resp.Usage = Usage{
				InputTokens:  chunk.PromptEvalCount,
				OutputTokens: chunk.EvalCount,
				TotalTokens:  chunk.PromptEvalCount + chunk.EvalCount,
			}
			resp.StopReason = mapOllamaStopReason(chunk.DoneReason)
		}
	}

	if found {
		resp.Content = json.RawMessage(text.String())
	} else {
		resp.Content = json.RawMessage(raw)
	}
	return resp
}

func mapOllamaStopReason(reason string) string {
	if reason == "length" {
		return "max_tokens"
	}
	return "end"
}

func mapOllamaStatus(resp *http.Response, body []byte) error {
	err := fmt.Errorf("ollama returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	if resp.StatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter(resp), Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
