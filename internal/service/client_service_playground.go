package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/MKhiriev/prompt-shield/internal/adapter"
	"github.com/MKhiriev/prompt-shield/internal/config"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/session"
	"github.com/MKhiriev/prompt-shield/internal/validators"
	"github.com/MKhiriev/prompt-shield/models"
)

const (
	// OptimizeOnlyOutput replaces the LLM output of optimize-only results.
	OptimizeOnlyOutput = "Optimization only - no LLM execution performed."
	// OptimizeOnlyProvider is the provider reported for optimize-only results.
	OptimizeOnlyProvider = "none"

	msgUnexpectedError = "Unexpected error occurred"
)

// modelPrices is an approximate price table in USD per one million input
// tokens. It is static and not sourced from the API, so it drifts from real
// provider pricing; estimates built on it are indicative only. Entries are
// matched by substring in order, so "gpt-4o-mini" must precede "gpt-4".
var modelPrices = []struct {
	match string
	usd   float64
}{
	{match: "gpt-4o-mini", usd: 0.15},
	{match: "gpt-4", usd: 30.0},
	{match: "claude", usd: 3.0},
	{match: "gemini", usd: 0.35},
}

// PricePerMillion returns the approximate USD price per one million tokens
// for model, 0 for unknown models.
func PricePerMillion(model string) float64 {
	lower := strings.ToLower(model)
	for _, p := range modelPrices {
		if strings.Contains(lower, p.match) {
			return p.usd
		}
	}
	return 0
}

// Metrics are derived client-side from the token counts of a result.
type Metrics struct {
	// SavingsPercent is the rounded share of tokens removed, 0 when the raw
	// prompt is empty.
	SavingsPercent int

	// PricePerMillion is the table price used for the estimates below.
	PricePerMillion float64
	RawCost         float64
	CompressedCost  float64
	CostSaved       float64
}

// ComputeMetrics derives [Metrics] for tokens priced as model.
func ComputeMetrics(tokens models.TokenMetrics, model string) Metrics {
	m := Metrics{PricePerMillion: PricePerMillion(model)}
	if tokens.RawTokens > 0 {
		saved := float64(tokens.RawTokens-tokens.CompressedTokens) / float64(tokens.RawTokens)
		m.SavingsPercent = int(math.Round(saved * 100))
	}
	perToken := m.PricePerMillion / 1_000_000
	m.RawCost = float64(tokens.RawTokens) * perToken
	m.CompressedCost = float64(tokens.CompressedTokens) * perToken
	m.CostSaved = m.RawCost - m.CompressedCost
	return m
}

// PlaygroundResult is a playground response with its derived metrics.
type PlaygroundResult struct {
	Response models.ExecuteResponse
	Metrics  Metrics
}

// ExecuteInput is the input of [Playground.Execute]. Empty Provider and
// Model fall back to the configured defaults.
type ExecuteInput struct {
	Text        string
	Provider    string
	Model       string
	ProviderKey string
}

// Playground runs prompts through the API: optimize-only works without a
// key, execute needs one.
type Playground struct {
	mu  sync.Mutex
	sub submission

	defaults  config.ClientPlayground
	session   *session.Store
	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewPlayground(defaults config.ClientPlayground, sess *session.Store, serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) *Playground {
	return &Playground{
		defaults:  defaults,
		session:   sess,
		adapter:   serverAdapter,
		validator: validator,
		logger:    logger,
	}
}

// Defaults returns the configured provider and model.
func (p *Playground) Defaults() config.ClientPlayground {
	return p.defaults
}

// Busy reports whether a request is outstanding.
func (p *Playground) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sub.busy
}

// OptimizeOnly compresses text without running it. The key is attached when
// the session holds one.
func (p *Playground) OptimizeOnly(ctx context.Context, text, model string) (PlaygroundResult, error) {
	if model == "" {
		model = p.defaults.Model
	}
	if err := p.validator.Validate(ctx, models.PromptForm{Text: text}); err != nil {
		return PlaygroundResult{}, err
	}

	key := p.session.Credential()
	gen, err := p.start()
	if err != nil {
		return PlaygroundResult{}, err
	}
	defer p.finish(gen)

	res, err := p.adapter.Optimize(ctx, key, models.OptimizeRequest{Text: text, Model: model})
	if err != nil {
		return PlaygroundResult{}, p.requestError(ctx, key, err)
	}

	resp := models.ExecuteResponse{
		Provider:        OptimizeOnlyProvider,
		Model:           &model,
		RawText:         res.RawText,
		CompressedText:  res.CompressedText,
		Output:          OptimizeOnlyOutput,
		Tokens:          res.Tokens,
		Analysis:        res.Analysis,
		Suggestions:     res.Suggestions,
		ConfidenceScore: res.ConfidenceScore,
	}
	return PlaygroundResult{Response: resp, Metrics: ComputeMetrics(resp.Tokens, model)}, nil
}

// Execute compresses the prompt and runs it on the chosen provider. Without
// a key it fails with [ErrAPIKeyRequired] before any request.
func (p *Playground) Execute(ctx context.Context, in ExecuteInput) (PlaygroundResult, error) {
	if in.Provider == "" {
		in.Provider = p.defaults.Provider
	}
	if in.Model == "" {
		in.Model = p.defaults.Model
	}
	if err := p.validator.Validate(ctx, models.PromptForm{Text: in.Text}); err != nil {
		return PlaygroundResult{}, err
	}

	key := p.session.Credential()
	if key.IsEmpty() {
		return PlaygroundResult{}, ErrAPIKeyRequired
	}

	gen, err := p.start()
	if err != nil {
		return PlaygroundResult{}, err
	}
	defer p.finish(gen)

	req := models.ExecuteRequest{
		Text:        in.Text,
		Provider:    in.Provider,
		Model:       in.Model,
		ProviderKey: strings.TrimSpace(in.ProviderKey),
	}
	resp, err := p.adapter.Execute(ctx, key, req)
	if err != nil {
		return PlaygroundResult{}, p.requestError(ctx, key, err)
	}

	return PlaygroundResult{Response: resp, Metrics: ComputeMetrics(resp.Tokens, resp.ModelName(in.Model))}, nil
}

func (p *Playground) start() (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sub.start()
}

func (p *Playground) finish(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sub.finish(gen)
}

// requestError phrases err the way the playground reports failures: the
// server's detail, else the status code.
func (p *Playground) requestError(ctx context.Context, key models.Credential, err error) error {
	p.session.InvalidateOnAuthError(ctx, key, err)

	fallback := msgUnexpectedError
	if code := adapter.StatusCode(err); code != 0 {
		fallback = fmt.Sprintf("Request failed with status %d", code)
	}
	p.logger.Debug().Err(err).Str("func", "Playground.requestError").Msg("playground request failed")
	return newUserError(err, fallback)
}
