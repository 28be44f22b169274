package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/prompt-shield/internal/config"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/utils"
	"github.com/MKhiriev/prompt-shield/models"
)

// APIKeyHeader is the header carrying the account key.
const APIKeyHeader = "X-API-Key"

const (
	pathMe             = "/api/v1/auth/me"
	pathRotateKey      = "/api/v1/auth/rotate-key"
	pathLogin          = "/api/v1/auth/login"
	pathSignup         = "/api/v1/auth/signup"
	pathVerify         = "/api/v1/auth/verify"
	pathForgotPassword = "/api/v1/auth/forgot-password"
	pathResetPassword  = "/api/v1/auth/reset-password"
	pathChangePassword = "/api/v1/auth/change-password"
	pathPaymentCreate  = "/api/v1/payment/create"
	pathPaymentConfirm = "/api/v1/payment/confirm"
	pathOptimize       = "/api/v1/optimize"
	pathExecute        = "/api/v1/execute"
	pathHistory        = "/api/v1/stats/history"
	pathStats          = "/api/v1/analytics/stats"
	pathTimeSeries     = "/api/v1/analytics/time-series"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying client with the
// request timeout and the outbound rate limit.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(utils.WithRateLimit(adapterCfg.RateLimit, adapterCfg.RateBurst))
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	h := &httpServerAdapter{client: client, logger: logger}
	client.OnAfterResponse(h.logResponse)
	client.OnError(h.logError)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Me implements [ServerAdapter]. GET /api/v1/auth/me.
func (h *httpServerAdapter) Me(ctx context.Context, key models.Credential) (models.Profile, error) {
	var profile models.Profile
	if err := h.do(h.authedRequest(ctx, key), http.MethodGet, pathMe, "me", &profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// RotateKey implements [ServerAdapter]. POST /api/v1/auth/rotate-key.
func (h *httpServerAdapter) RotateKey(ctx context.Context, key models.Credential) (models.Credential, error) {
	var out models.APIKeyResponse
	if err := h.do(h.authedRequest(ctx, key), http.MethodPost, pathRotateKey, "rotate key", &out); err != nil {
		return "", err
	}
	if out.APIKey == "" {
		return "", fmt.Errorf("rotate key: %w: empty api_key", ErrUnexpectedResponse)
	}
	return models.Credential(out.APIKey), nil
}

// Login implements [ServerAdapter]. POST /api/v1/auth/login.
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.Credential, error) {
	return h.exchangeCredentials(ctx, pathLogin, "login", creds)
}

// Signup implements [ServerAdapter]. POST /api/v1/auth/signup.
func (h *httpServerAdapter) Signup(ctx context.Context, creds models.Credentials) (models.Credential, error) {
	return h.exchangeCredentials(ctx, pathSignup, "signup", creds)
}

func (h *httpServerAdapter) exchangeCredentials(ctx context.Context, path, op string, creds models.Credentials) (models.Credential, error) {
	var out models.APIKeyResponse
	req := h.authedRequest(ctx, "").
		SetHeader("Content-Type", "application/json").
		SetBody(creds)
	if err := h.do(req, http.MethodPost, path, op, &out); err != nil {
		return "", err
	}
	if out.APIKey == "" {
		return "", fmt.Errorf("%s: %w: empty api_key", op, ErrUnexpectedResponse)
	}
	return models.Credential(out.APIKey), nil
}

// Verify implements [ServerAdapter]. POST /api/v1/auth/verify?token=code,
// authorized with the temporary key.
func (h *httpServerAdapter) Verify(ctx context.Context, tempKey models.Credential, code string) (models.MessageResponse, error) {
	var out models.MessageResponse
	req := h.authedRequest(ctx, tempKey).
		SetQueryParam("token", code)
	if err := h.do(req, http.MethodPost, pathVerify, "verify", &out); err != nil {
		return models.MessageResponse{}, err
	}
	return out, nil
}

// ForgotPassword implements [ServerAdapter]. POST /api/v1/auth/forgot-password.
func (h *httpServerAdapter) ForgotPassword(ctx context.Context, body models.ForgotPasswordRequest) (models.MessageResponse, error) {
	var out models.MessageResponse
	req := h.authedRequest(ctx, "").
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if err := h.do(req, http.MethodPost, pathForgotPassword, "forgot password", &out); err != nil {
		return models.MessageResponse{}, err
	}
	return out, nil
}

// ResetPassword implements [ServerAdapter]. POST /api/v1/auth/reset-password.
// The Content-Type is checked before the status so that an HTML error page
// from a proxy is reported as [ErrUnexpectedResponse].
func (h *httpServerAdapter) ResetPassword(ctx context.Context, body models.ResetPasswordRequest) (models.MessageResponse, error) {
	resp, err := h.authedRequest(ctx, "").
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(pathResetPassword)
	if err != nil {
		return models.MessageResponse{}, fmt.Errorf("reset password request: %w", err)
	}
	if !isJSONResponse(resp) {
		return models.MessageResponse{}, fmt.Errorf("reset password: %w", ErrUnexpectedResponse)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.MessageResponse{}, err
	}

	var out models.MessageResponse
	if err = decodeJSON(resp, &out); err != nil {
		return models.MessageResponse{}, fmt.Errorf("reset password: %w", err)
	}
	return out, nil
}

// ChangePassword implements [ServerAdapter]. POST /api/v1/auth/change-password.
func (h *httpServerAdapter) ChangePassword(ctx context.Context, key models.Credential, body models.ChangePasswordRequest) (models.MessageResponse, error) {
	var out models.MessageResponse
	req := h.authedRequest(ctx, key).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if err := h.do(req, http.MethodPost, pathChangePassword, "change password", &out); err != nil {
		return models.MessageResponse{}, err
	}
	return out, nil
}

// CreatePayment implements [ServerAdapter]. POST /api/v1/payment/create.
func (h *httpServerAdapter) CreatePayment(ctx context.Context, key models.Credential, body models.CreatePaymentRequest) (models.PaymentIntent, error) {
	var intent models.PaymentIntent
	req := h.authedRequest(ctx, key).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if err := h.do(req, http.MethodPost, pathPaymentCreate, "create payment", &intent); err != nil {
		return models.PaymentIntent{}, err
	}
	return intent, nil
}

// ConfirmPayment implements [ServerAdapter]. POST /api/v1/payment/confirm.
// The body is decoded into [models.PaymentConfirmed] or
// [models.PaymentPending].
func (h *httpServerAdapter) ConfirmPayment(ctx context.Context, key models.Credential, body models.ConfirmPaymentRequest) (models.PaymentOutcome, error) {
	var out models.ConfirmPaymentResponse
	req := h.authedRequest(ctx, key).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if err := h.do(req, http.MethodPost, pathPaymentConfirm, "confirm payment", &out); err != nil {
		return nil, err
	}
	return out.Outcome(), nil
}

// Optimize implements [ServerAdapter]. POST /api/v1/optimize.
func (h *httpServerAdapter) Optimize(ctx context.Context, key models.Credential, body models.OptimizeRequest) (models.OptimizationResult, error) {
	var out models.OptimizationResult
	req := h.authedRequest(ctx, key).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if err := h.do(req, http.MethodPost, pathOptimize, "optimize", &out); err != nil {
		return models.OptimizationResult{}, err
	}
	return out, nil
}

// Execute implements [ServerAdapter]. POST /api/v1/execute.
func (h *httpServerAdapter) Execute(ctx context.Context, key models.Credential, body models.ExecuteRequest) (models.ExecuteResponse, error) {
	var out models.ExecuteResponse
	req := h.authedRequest(ctx, key).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if err := h.do(req, http.MethodPost, pathExecute, "execute", &out); err != nil {
		return models.ExecuteResponse{}, err
	}
	return out, nil
}

// History implements [ServerAdapter]. GET /api/v1/stats/history?limit=.
// A non-positive limit leaves the page size to the server.
func (h *httpServerAdapter) History(ctx context.Context, key models.Credential, limit int) ([]models.ActivityLog, error) {
	req := h.authedRequest(ctx, key)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	var logs []models.ActivityLog
	if err := h.do(req, http.MethodGet, pathHistory, "history", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Stats implements [ServerAdapter]. GET /api/v1/analytics/stats.
func (h *httpServerAdapter) Stats(ctx context.Context, key models.Credential) (models.AnalyticsStats, error) {
	var stats models.AnalyticsStats
	if err := h.do(h.authedRequest(ctx, key), http.MethodGet, pathStats, "analytics stats", &stats); err != nil {
		return models.AnalyticsStats{}, err
	}
	return stats, nil
}

// TimeSeries implements [ServerAdapter]. GET /api/v1/analytics/time-series.
func (h *httpServerAdapter) TimeSeries(ctx context.Context, key models.Credential) ([]models.TimeSeriesPoint, error) {
	var points []models.TimeSeriesPoint
	if err := h.do(h.authedRequest(ctx, key), http.MethodGet, pathTimeSeries, "analytics time series", &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context, key models.Credential) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if k := strings.TrimSpace(key.String()); k != "" {
		req.SetHeader(APIKeyHeader, k)
	}
	return req
}

// do executes req, maps non-2xx statuses and decodes a 2xx body into result.
// An empty 2xx body leaves result untouched.
func (h *httpServerAdapter) do(req *resty.Request, method, path, op string, result any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}
	if result == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err = decodeJSON(resp, result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (h *httpServerAdapter) logResponse(_ *resty.Client, resp *resty.Response) error {
	h.logger.Debug().
		Str("func", "httpServerAdapter.logResponse").
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Str("request_id", resp.Request.Header.Get(utils.RequestIDHeader)).
		Int("status", resp.StatusCode()).
		Dur("latency", resp.Time()).
		Msg("api response")
	return nil
}

func (h *httpServerAdapter) logError(req *resty.Request, err error) {
	h.logger.Err(err).
		Str("func", "httpServerAdapter.logError").
		Str("method", req.Method).
		Str("url", req.URL).
		Str("request_id", req.Header.Get(utils.RequestIDHeader)).
		Msg("api request failed")
}
