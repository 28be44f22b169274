package models

// OptimizeRequest is the request body of POST /api/v1/optimize.
type OptimizeRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// ExecuteRequest is the request body of POST /api/v1/execute.
//
// ProviderKey is the user's own upstream LLM key; it is omitted from the body
// when empty.
type ExecuteRequest struct {
	Text        string `json:"text"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	ProviderKey string `json:"provider_key,omitempty"`
}

// TokenMetrics holds the token counts reported by the compression engine.
type TokenMetrics struct {
	RawTokens        int     `json:"raw_tokens"`
	CompressedTokens int     `json:"compressed_tokens"`
	SavingsRatio     float64 `json:"savings_ratio"`
}

// AnalysisSegment is one semantic segment of the compressed prompt.
type AnalysisSegment struct {
	Root  string            `json:"root"`
	Ops   []string          `json:"ops"`
	Roles map[string]string `json:"roles"`
	Meta  *string           `json:"meta"`
}

// OptimizationResult is the body returned by POST /api/v1/optimize.
type OptimizationResult struct {
	RawText         string            `json:"raw_text"`
	CompressedText  string            `json:"compressed_text"`
	Tokens          TokenMetrics      `json:"tokens"`
	Analysis        []AnalysisSegment `json:"analysis,omitempty"`
	Suggestions     []string          `json:"suggestions,omitempty"`
	ConfidenceScore *float64          `json:"confidence_score,omitempty"`
}

// ExecuteResponse is the unified playground view model. It is returned as is
// by POST /api/v1/execute and adapted from [OptimizationResult] for
// optimize-only requests.
type ExecuteResponse struct {
	Provider        string            `json:"provider"`
	Model           *string           `json:"model"`
	RawText         string            `json:"raw_text"`
	CompressedText  string            `json:"compressed_text"`
	Output          string            `json:"output"`
	Tokens          TokenMetrics      `json:"tokens"`
	Analysis        []AnalysisSegment `json:"analysis,omitempty"`
	Suggestions     []string          `json:"suggestions,omitempty"`
	ConfidenceScore *float64          `json:"confidence_score,omitempty"`
}

// ModelName returns the model reported by the server, or fallback when the
// server did not report one.
func (r ExecuteResponse) ModelName(fallback string) string {
	if r.Model == nil || *r.Model == "" {
		return fallback
	}
	return *r.Model
}
