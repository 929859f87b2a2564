package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/config"
	"google.golang.org/genai"
)

const maxEmbeddingInputBytes = 10000

// GeminiService embeds job postings and resumes for recommendations and can
// act as the chat provider.
type GeminiService struct {
	Client            *genai.Client
	ChatModel         string
	EmbeddingModel    string
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	MaxOutputTokens   int32
	Temperature       float32
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
	// After cooldown an open breaker lets one trial call through.
	cooldown time.Duration
	openedAt atomic.Int64
	trialing atomic.Bool
	now      func() time.Time
	logger   *log.Logger
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, chat *config.ChatConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		Client:            client,
		ChatModel:         cfg.ChatModel,
		EmbeddingModel:    cfg.EmbeddingModel,
		MaxRetries:        3,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		RequestTimeout:    60 * time.Second,
		MaxOutputTokens:   int32(chat.MaxTokens),
		Temperature:       float32(chat.Temperature),
		circuitBreakerMax: 5,
		cooldown:          30 * time.Second,
		now:               time.Now,
		logger:            log.New(os.Stdout, "[gemini] ", log.LstdFlags),
	}, nil
}

func (s *GeminiService) Provider() string { return "gemini" }

// Reply answers an onboarding chat message. contextText is appended to the
// system instruction.
func (s *GeminiService) Reply(ctx context.Context, message, contextText string) (string, error) {
	const op = "chat.gemini"
	if strings.TrimSpace(message) == "" {
		return "", apperror.Validation(op, "message cannot be empty")
	}
	system := chatSystemPrompt
	if contextText != "" {
		system += "\n\nContext:\n" + contextText
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(s.Temperature),
		MaxOutputTokens:   s.MaxOutputTokens,
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	var result *genai.GenerateContentResponse
	err := s.withRetry(ctx, "Reply", func(ctx context.Context) error {
		var err error
		result, err = s.Client.Models.GenerateContent(ctx, s.ChatModel, genai.Text(message), genConfig)
		return err
	})
	if err != nil {
		return "", apperror.New(apperror.KindHTTP, op, "gemini request failed", err)
	}
	if err := s.validateGenerateResponse(result); err != nil {
		return "", apperror.Decode(op, "invalid gemini response", err)
	}
	return strings.TrimSpace(result.Text()), nil
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	if len(trimmedText) > maxEmbeddingInputBytes {
		s.logger.Printf("text length %d exceeds recommended limit, truncating", len(trimmedText))
		trimmedText = cut(trimmedText, maxEmbeddingInputBytes)
	}

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}

	var result *genai.EmbedContentResponse
	err := s.withRetry(ctx, "GenerateEmbedding", func(ctx context.Context) error {
		var err error
		result, err = s.Client.Models.EmbedContent(ctx, s.EmbeddingModel, content, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	embeddings, err := s.validateEmbeddingResponse(result)
	if err != nil {
		return nil, fmt.Errorf("invalid embedding response: %w", err)
	}
	return embeddings, nil
}

func (s *GeminiService) withRetry(ctx context.Context, name string, call func(context.Context) error) error {
	trial, err := s.admit()
	if err != nil {
		return err
	}
	err = s.retry(ctx, name, call)
	s.record(trial, err)
	return err
}

func (s *GeminiService) retry(ctx context.Context, name string, call func(context.Context) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Printf("retry attempt %d/%d for %s after %v", attempt, s.MaxRetries, name, delay)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !s.isRetryableError(err) {
			s.logger.Printf("non-retryable error in %s: %v", name, err)
			return fmt.Errorf("%s failed: %w", name, err)
		}
		s.logger.Printf("retryable error on attempt %d: %v", attempt+1, err)
	}
	return fmt.Errorf("max retries (%d) exceeded for %s: %w", s.MaxRetries, name, lastErr)
}

// admit rejects calls while the breaker is open. Once the cooldown has passed
// a single caller is let through as the trial; trial reports that.
func (s *GeminiService) admit() (trial bool, err error) {
	n := s.consecutiveErrors.Load()
	if n < s.circuitBreakerMax {
		return false, nil
	}
	openErr := fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", n)
	if s.now().Sub(time.Unix(0, s.openedAt.Load())) < s.cooldown {
		return false, openErr
	}
	if !s.trialing.CompareAndSwap(false, true) {
		return false, openErr
	}
	s.logger.Printf("circuit breaker half-open after %v, sending a trial call", s.cooldown)
	return true, nil
}

// record updates the breaker with the outcome of one call. Cancellations and
// deadlines say nothing about Gemini's health and are not counted.
func (s *GeminiService) record(trial bool, err error) {
	if trial {
		defer s.trialing.Store(false)
	}
	switch {
	case err == nil:
		if s.consecutiveErrors.Swap(0) >= s.circuitBreakerMax {
			s.logger.Println("circuit breaker closed")
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	default:
		if s.consecutiveErrors.Add(1) >= s.circuitBreakerMax {
			s.openedAt.Store(s.now().UnixNano())
			if trial {
				s.logger.Printf("trial call failed, circuit breaker open again: %v", err)
			}
		}
	}
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	return delay
}

func (s *GeminiService) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	errMsg := err.Error()
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func (s *GeminiService) validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("candidate content is empty")
	}
	return nil
}

func (s *GeminiService) validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embeddings := resp.Embeddings[0].Values
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, val := range embeddings {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embeddings, nil
}
