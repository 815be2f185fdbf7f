package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

const (
	DefaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	DefaultAnthropicModel   = "claude-sonnet-4-20250514"
	DefaultAnthropicVersion = "2023-06-01"

	analyzeMaxTokens = 4000
	chatMaxTokens    = 2000
	compareMaxTokens = 3000

	defaultImageMediaType = "image/jpeg"
	analysisCacheTTL      = 24 * time.Hour
)

// Operation names used in logs and metrics
const (
	opAnalyze = "analyze"
	opChat    = "chat"
	opCompare = "compare"
)

// LLMConfig configures the model API client
type LLMConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Version      string
	Timeout      time.Duration
	MaxRetries   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
}

// AnalyzeInput is a single WOD to analyze
type AnalyzeInput struct {
	WodText        string
	Mode           types.Mode
	ImageBase64    string
	ImageMediaType string
	Athlete        *types.AthleteContext
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// LLMOption customizes an LLMService
type LLMOption func(*LLMService)

// WithAnalysisCache serves repeated analysis requests from Redis
func WithAnalysisCache(cache *AnalysisCache) LLMOption {
	return func(s *LLMService) {
		s.cache = cache
	}
}

// WithMetrics records model call counts and latency
func WithMetrics(m *metrics.Manager) LLMOption {
	return func(s *LLMService) {
		s.metrics = m
	}
}

// LLMService talks to the Anthropic Messages API
type LLMService struct {
	client  *resty.Client
	apiURL  string
	model   string
	prompts *PromptBuilder
	cache   *AnalysisCache
	metrics *metrics.Manager
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg LLMConfig, prompts *PromptBuilder, opts ...LLMOption) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY or ANTHROPIC_API_KEY_FILE must be set")
	}
	if prompts == nil {
		return nil, fmt.Errorf("prompt builder is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAnthropicURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	if cfg.Version == "" {
		cfg.Version = DefaultAnthropicVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 2 * time.Second
	}
	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", cfg.Version).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(shouldRetry)

	s := &LLMService{
		client:  client,
		apiURL:  cfg.BaseURL,
		model:   cfg.Model,
		prompts: prompts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// shouldRetry retries transport errors, rate limiting and server errors
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Analyze sends a WOD to the model and returns the normalized analysis
func (s *LLMService) Analyze(ctx context.Context, in AnalyzeInput) (*types.WodAnalysis, error) {
	mode := types.ParseMode(string(in.Mode))
	imageData, mediaType := splitDataURL(in.ImageBase64, in.ImageMediaType)
	if strings.TrimSpace(in.WodText) == "" && imageData == "" {
		return nil, ErrEmptyWod
	}

	system, err := s.prompts.AnalysisSystemPrompt(in.Athlete)
	if err != nil {
		return nil, err
	}
	userText := AnalysisUserText(mode, in.WodText)

	cacheKey := analysisCacheKey(s.model, system, userText, mediaType, imageData)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			log.WithError(err).Warn("analysis cache lookup failed")
		} else if cached != nil {
			s.metrics.ObserveLLMCall(opAnalyze, metrics.OutcomeCached, 0)
			log.WithField("key", cacheKey).Debug("analysis served from cache")
			return cached, nil
		}
	}

	var content []anthropicContent
	if imageData != "" {
		content = append(content, anthropicContent{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      imageData,
			},
		})
	}
	content = append(content, anthropicContent{Type: "text", Text: userText})

	text, err := s.call(ctx, opAnalyze, anthropicRequest{
		Model:     s.model,
		MaxTokens: analyzeMaxTokens,
		System:    system,
		Messages:  []anthropicMessage{{Role: types.RoleUser, Content: content}},
	})
	if err != nil {
		return nil, err
	}

	analysis, err := ParseAnalysis(text, mode)
	if err != nil {
		log.WithError(err).WithField("raw", truncate(text, 500)).Error("failed to parse analysis reply")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, analysis); err != nil {
			log.WithError(err).Warn("failed to cache analysis")
		}
	}
	return analysis, nil
}

// Chat continues the conversation about an analysis
func (s *LLMService) Chat(ctx context.Context, messages []types.ChatMessage, analysis *types.WodAnalysis, athlete *types.AthleteContext) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	turns := make([]anthropicMessage, 0, len(messages))
	for i, m := range messages {
		if m.Role != types.RoleUser && m.Role != types.RoleAssistant {
			return "", &ValidationError{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Message: fmt.Sprintf("rol de mensaje no válido: %q", m.Role),
			}
		}
		if strings.TrimSpace(m.Content) == "" {
			return "", &ValidationError{
				Field:   fmt.Sprintf("messages[%d].content", i),
				Message: "el mensaje no puede estar vacío",
			}
		}
		turns = append(turns, anthropicMessage{
			Role:    m.Role,
			Content: []anthropicContent{{Type: "text", Text: m.Content}},
		})
	}

	system, err := s.prompts.ChatSystemPrompt(athlete, analysis)
	if err != nil {
		return "", err
	}

	return s.call(ctx, opChat, anthropicRequest{
		Model:     s.model,
		MaxTokens: chatMaxTokens,
		System:    system,
		Messages:  turns,
	})
}

// Compare judges the accumulated load of yesterday's and today's WODs
func (s *LLMService) Compare(ctx context.Context, today, yesterday *types.WodAnalysis, athlete *types.AthleteContext) (*types.WodComparison, error) {
	if today == nil || yesterday == nil {
		return nil, ErrMissingAnalysis
	}

	system, err := s.prompts.CompareSystemPrompt(athlete)
	if err != nil {
		return nil, err
	}
	userText, err := CompareUserText(today, yesterday)
	if err != nil {
		return nil, err
	}

	text, err := s.call(ctx, opCompare, anthropicRequest{
		Model:     s.model,
		MaxTokens: compareMaxTokens,
		System:    system,
		Messages: []anthropicMessage{{
			Role:    types.RoleUser,
			Content: []anthropicContent{{Type: "text", Text: userText}},
		}},
	})
	if err != nil {
		return nil, err
	}

	cmp, err := ParseComparison(text)
	if err != nil {
		log.WithError(err).WithField("raw", truncate(text, 500)).Error("failed to parse comparison reply")
		return nil, err
	}
	return cmp, nil
}

// call posts one request and returns the concatenated text blocks
func (s *LLMService) call(ctx context.Context, op string, req anthropicRequest) (string, error) {
	start := time.Now()
	logger := log.WithFields(log.Fields{"op": op, "model": req.Model})

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(s.apiURL)
	took := time.Since(start)
	if err != nil {
		s.metrics.ObserveLLMCall(op, metrics.OutcomeError, took)
		logger.WithError(err).Error("model request failed")
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	var result anthropicResponse
	decodeErr := json.Unmarshal(resp.Body(), &result)

	if resp.IsError() {
		s.metrics.ObserveLLMCall(op, metrics.OutcomeError, took)
		msg := strings.TrimSpace(resp.String())
		if decodeErr == nil && result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		logger.WithField("status", resp.StatusCode()).Errorf("API request failed: %s", msg)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), msg)
	}
	if decodeErr != nil {
		s.metrics.ObserveLLMCall(op, metrics.OutcomeError, took)
		return "", fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	var b strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	s.metrics.ObserveLLMCall(op, metrics.OutcomeSuccess, took)
	logger.WithFields(log.Fields{
		"took":        took.String(),
		"stop_reason": result.StopReason,
	}).Debug("model call finished")
	return b.String(), nil
}

// splitDataURL accepts raw base64 or a data URL and returns the payload and its media type
func splitDataURL(data, mediaType string) (string, string) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if comma := strings.Index(data, ","); comma > 0 {
			header := strings.TrimPrefix(data[:comma], "data:")
			data = data[comma+1:]
			if mediaType == "" {
				mediaType = strings.TrimSuffix(header, ";base64")
			}
		}
	}
	if mediaType == "" {
		mediaType = defaultImageMediaType
	}
	return data, mediaType
}

func analysisCacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "wod:analysis:" + hex.EncodeToString(h.Sum(nil))
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// AnalysisCache keeps analyses in Redis keyed by a hash of the full request
type AnalysisCache struct {
	redis redis.Cmdable
	ttl   time.Duration
}

// NewAnalysisCache creates a cache with the default 24h expiry
func NewAnalysisCache(client redis.Cmdable) *AnalysisCache {
	return &AnalysisCache{redis: client, ttl: analysisCacheTTL}
}

// Get returns nil without error on a miss
func (c *AnalysisCache) Get(ctx context.Context, key string) (*types.WodAnalysis, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached analysis: %w", err)
	}

	var analysis types.WodAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return &analysis, nil
}

// Set stores an analysis under key
func (c *AnalysisCache) Set(ctx context.Context, key string, analysis *types.WodAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}
	return nil
}
