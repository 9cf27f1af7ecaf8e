package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/jsonrescue/core/recovery"
	"github.com/leofalp/jsonrescue/providers/observability"
)

var (
	// ErrProviderError is returned for responses whose finish reason reports
	// a provider-side failure.
	ErrProviderError = errors.New("jsonrescue: provider reported an error")

	// ErrMissingTextBlock is returned when a response carries no text to recover.
	ErrMissingTextBlock = errors.New("jsonrescue: response has no text content")
)

// Canonical finish reasons.
const (
	FinishStop          = "stop"
	FinishLength        = "length"
	FinishContentFilter = "content_filter"
	FinishToolCalls     = "tool_calls"
	FinishError         = "error"
)

// Usage reports token consumption for one response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse is a completed generation as captured from a provider.
type ChatResponse struct {
	ID           string `json:"id,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Refusal      string `json:"refusal,omitempty"`
	Error        string `json:"error,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

// NormalizeFinishReason maps provider specific stop reasons onto the
// canonical set. Unknown values are lower-cased and returned as is.
func NormalizeFinishReason(reason string) string {
	switch strings.TrimSpace(reason) {
	case "", "stop", "end_turn", "stop_sequence", "STOP", "OTHER":
		return FinishStop
	case "length", "max_tokens", "MAX_TOKENS":
		return FinishLength
	case "content_filter", "SAFETY", "RECITATION", "refusal":
		return FinishContentFilter
	case "tool_calls", "tool_use":
		return FinishToolCalls
	case "error", "ERROR":
		return FinishError
	}
	return strings.ToLower(strings.TrimSpace(reason))
}

// IsTruncated reports whether reason means the output token budget ran out.
func IsTruncated(reason string) bool {
	return NormalizeFinishReason(reason) == FinishLength
}

// ToRawResponse prepares resp for recovery. It fails with ErrProviderError
// when the provider reported an error and with ErrMissingTextBlock when
// there is no content.
func ToRawResponse(resp *ChatResponse) (recovery.RawResponse, error) {
	if resp == nil {
		return recovery.RawResponse{}, ErrMissingTextBlock
	}
	if NormalizeFinishReason(resp.FinishReason) == FinishError {
		if resp.Error != "" {
			return recovery.RawResponse{}, fmt.Errorf("%w: %s", ErrProviderError, resp.Error)
		}
		return recovery.RawResponse{}, ErrProviderError
	}
	if strings.TrimSpace(resp.Content) == "" {
		if resp.Refusal != "" {
			return recovery.RawResponse{}, fmt.Errorf("%w: refused: %s", ErrMissingTextBlock, resp.Refusal)
		}
		return recovery.RawResponse{}, ErrMissingTextBlock
	}
	return recovery.RawResponse{
		Text:         resp.Content,
		WasTruncated: IsTruncated(resp.FinishReason),
	}, nil
}

// Recover converts resp and runs it through r. The provider, model and
// finish reason are logged at debug level on the context's observer.
func Recover(ctx context.Context, r *recovery.Recoverer, resp *ChatResponse) (*recovery.Result, error) {
	raw, err := ToRawResponse(resp)
	if err != nil {
		return nil, err
	}
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "Recovering provider response",
			observability.String(observability.AttrLLMProvider, resp.Provider),
			observability.String(observability.AttrLLMModel, resp.Model),
			observability.String(observability.AttrLLMFinishReason, NormalizeFinishReason(resp.FinishReason)),
		)
	}
	return r.Recover(ctx, raw)
}
