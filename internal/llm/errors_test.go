package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"success", nil, OutcomeOK},
		{"rate limit", &ErrRateLimit{RetryAfter: time.Second, Err: errors.New("429")}, OutcomeRateLimited},
		{"invalid", &ErrInvalidResponse{Err: errors.New("not json")}, OutcomeInvalid},
		{"truncated", &ErrMaxTokensExceeded{}, OutcomeTruncated},
		{"unavailable", &ErrProviderUnavailable{}, OutcomeUnavailable},
		{"plain error", errors.New("dial tcp: refused"), OutcomeUnavailable},
		{"deadline", context.DeadlineExceeded, OutcomeTimeout},
		{"canceled", context.Canceled, OutcomeCanceled},
		{"wrapped deadline", &ErrProviderUnavailable{Err: fmt.Errorf("read: %w", context.DeadlineExceeded)}, OutcomeTimeout},
		{"wrapped invalid", fmt.Errorf("generate: %w", &ErrInvalidResponse{}), OutcomeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "rate limited: slow down", (&ErrRateLimit{Err: errors.New("slow down")}).Error())
	assert.Equal(t, "rate limited (retry after 2s): slow down",
		(&ErrRateLimit{RetryAfter: 2 * time.Second, Err: errors.New("slow down")}).Error())
	assert.Equal(t, "LLM provider unavailable", (&ErrProviderUnavailable{}).Error())
	assert.Equal(t, "preset answer truncated at the token limit after 4 bytes",
		(&ErrMaxTokensExceeded{Content: []byte(`{"no`)}).Error())
	assert.Equal(t, "invalid preset answer: empty", (&ErrInvalidResponse{Err: errors.New("empty")}).Error())
}
