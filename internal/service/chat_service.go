package service

import (
	"context"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const chatSystemPrompt = "You are an HR onboarding assistant. Answer the employee briefly and only about onboarding, training and company policies."

type ChatServiceInterface interface {
	Reply(ctx context.Context, message, contextText string) (string, error)
	Provider() string
}

// NewChatService picks the chat provider from configuration. Gemini needs a
// ready GeminiService; pass nil when it is not configured.
func NewChatService(cfg *config.ChatConfig, gemini *GeminiService) ChatServiceInterface {
	switch cfg.Provider {
	case "gemini":
		if gemini != nil {
			return gemini
		}
	case "openrouter":
		return NewOpenRouterService(cfg)
	}
	return NewChatEndpointService(cfg)
}

// ChatEndpointService calls a plain {message, context} -> {response} endpoint.
type ChatEndpointService struct {
	client      *resty.Client
	apiKey      string
	maxTokens   int
	temperature float64
}

func NewChatEndpointService(cfg *config.ChatConfig) *ChatEndpointService {
	return &ChatEndpointService{
		client:      resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).SetAuthToken(cfg.APIKey),
		apiKey:      cfg.APIKey,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (s *ChatEndpointService) Provider() string { return "endpoint" }

func (s *ChatEndpointService) Reply(ctx context.Context, message, contextText string) (string, error) {
	const op = "chat.endpoint"
	if s.apiKey == "" {
		return "", apperror.Validation(op, "chat api key is not configured")
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"message":     message,
			"context":     contextText,
			"max_tokens":  s.maxTokens,
			"temperature": s.temperature,
		}).
		Post("")
	if err != nil {
		return "", apperror.Network(op, err)
	}
	if !resp.IsSuccess() {
		return "", apperror.HTTP(op, resp.StatusCode(), truncate(resp.String(), 200))
	}
	text := strings.TrimSpace(gjson.GetBytes(resp.Body(), "response").String())
	if text == "" {
		return "", apperror.Decode(op, "chat response is empty", nil)
	}
	return text, nil
}

// OpenRouterService speaks the OpenAI-compatible chat completions API.
type OpenRouterService struct {
	client      *resty.Client
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

func NewOpenRouterService(cfg *config.ChatConfig) *OpenRouterService {
	return &OpenRouterService{
		client:      resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).SetAuthToken(cfg.APIKey),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (s *OpenRouterService) Provider() string { return "openrouter" }

func (s *OpenRouterService) Reply(ctx context.Context, message, contextText string) (string, error) {
	const op = "chat.openrouter"
	if s.apiKey == "" {
		return "", apperror.Validation(op, "OPENROUTER_API_KEY not set")
	}
	system := chatSystemPrompt
	if contextText != "" {
		system += "\n\nContext:\n" + contextText
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": message},
			},
			"max_tokens":  s.maxTokens,
			"temperature": s.temperature,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", apperror.Network(op, err)
	}
	if !resp.IsSuccess() {
		return "", apperror.HTTP(op, resp.StatusCode(), truncate(resp.String(), 200))
	}

	text := strings.TrimSpace(gjson.GetBytes(resp.Body(), "choices.0.message.content").String())
	if text == "" {
		return "", apperror.Decode(op, "no response from LLM", nil)
	}
	return text, nil
}
