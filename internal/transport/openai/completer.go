package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/metrics"
)

// Providers.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

const opAnswer = "answer"

// Completer generates chat completions through an OpenAI-compatible API,
// either an Azure OpenAI deployment or the public endpoint.
type Completer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	provider  string
	logger    *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	Provider   string
	APIKey     string
	Endpoint   string // Azure resource endpoint, or base URL override for openai
	Deployment string // Azure deployment name, or model name for openai
	APIVersion string
	MaxTokens  int
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewCompleter creates a chat completion provider.
func NewCompleter(cfg *Config) *Completer {
	var clientCfg openai.ClientConfig
	if cfg.Provider == ProviderAzure {
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		if cfg.APIVersion != "" {
			clientCfg.APIVersion = cfg.APIVersion
		}
		deployment := cfg.Deployment
		clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	} else {
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = cfg.Endpoint
		}
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Deployment,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		provider:  cfg.Provider,
		logger:    logger,
	}
}

// Complete sends a system and a user message and returns the first choice.
// Failures are reported as domain.ServiceError with op "answer".
func (c *Completer) Complete(ctx context.Context, system, user string) (domain.Completion, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: c.maxTokens,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.AnswerRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		c.logger.Warn("chat completion failed", zap.String("provider", c.provider), zap.Error(err))
		return domain.Completion{}, domain.NewServiceError(opAnswer, "", parseAPIError(err))
	}
	if len(resp.Choices) == 0 {
		metrics.AnswerRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		return domain.Completion{}, domain.NewServiceError(opAnswer, "", errors.New("empty completion response"))
	}

	metrics.AnswerRequestsTotal.WithLabelValues(c.provider, "success").Inc()
	metrics.AnswerTokensTotal.WithLabelValues(c.provider, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.AnswerTokensTotal.WithLabelValues(c.provider, "completion").Add(float64(resp.Usage.CompletionTokens))
	c.logger.Debug("chat completion done",
		zap.String("provider", c.provider),
		zap.Duration("took", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return domain.Completion{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// HealthCheck verifies the provider is reachable via ListModels.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return domain.NewServiceError("list_models", "", parseAPIError(err))
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		cause := statusSentinel(reqErr.HTTPStatusCode)
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, cause)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), cause)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, statusSentinel(apiErr.HTTPStatusCode))
	}

	return fmt.Errorf("chat request failed: %w", err)
}

func statusSentinel(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return domain.ErrTransient
	default:
		return domain.ErrService
	}
}

// extractDetail reads the "detail" field some compatible providers return.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
