package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"interview-prep-be/pkg/apperror"
	"interview-prep-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// emptyObject is returned when the response carries no choices[0].message.content.
const emptyObject = "{}"

type Config struct {
	APIKey         string
	BaseURL        string
	PowerfulModel  string
	EfficientModel string
	MaxTokens      int
	// LegacyMaxTokens sends "max_tokens" instead of "max_completion_tokens".
	LegacyMaxTokens bool
	Timeout         time.Duration
	Retry           llm.RetryConfig
	RatePerSecond   float64
}

// Provider talks to an OpenAI-compatible /chat/completions endpoint.
type Provider struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Provider{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		tracer:  otel.Tracer("interview-prep-be/pkg/llm/openai"),
	}
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []llm.Message `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	Temperature         *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *Provider) modelFor(opts llm.Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	if opts.Tier == llm.TierEfficient && p.cfg.EfficientModel != "" {
		return p.cfg.EfficientModel
	}
	return p.cfg.PowerfulModel
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if p.cfg.APIKey == "" {
		return "", &apperror.ConfigurationError{Key: "LLM_API_KEY"}
	}

	opts := llm.Apply(llm.Options{MaxTokens: p.cfg.MaxTokens}, options...)

	reqBody := chatRequest{
		Model:    p.modelFor(opts),
		Messages: history,
	}
	if p.cfg.LegacyMaxTokens {
		reqBody.MaxTokens = opts.MaxTokens
	} else {
		reqBody.MaxCompletionTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		reqBody.Temperature = &t
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, span := p.tracer.Start(ctx, "llm.chat", trace.WithAttributes(
		attribute.String("llm.model", reqBody.Model),
		attribute.String("llm.tier", string(opts.Tier)),
		attribute.Int("llm.max_tokens", opts.MaxTokens),
	))
	defer span.End()

	content, err := llm.Do(ctx, p.cfg.Retry, func() (string, error) {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		return p.send(ctx, payload)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return content, nil
}

func (p *Provider) send(ctx context.Context, payload []byte) (string, error) {
	url := p.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apperror.UpstreamError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == nil {
		return emptyObject, nil
	}
	return *chatResp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}
	return p.Chat(ctx, messages, options...)
}
