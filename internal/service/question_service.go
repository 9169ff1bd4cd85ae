// internal/service/question_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"word_wizard/internal/config"
	"word_wizard/internal/middleware"
	"word_wizard/internal/model"
	"word_wizard/internal/normalizer"

	openai "github.com/sashabaranov/go-openai"
)

// QuestionSource はクイズ問題を1回分取得します。失敗は model.ErrTransportFailure か
// model.ErrMalformedResponse でラップされます。リトライはしません。
type QuestionSource interface {
	GenerateQuestions(ctx context.Context) ([]model.QuizQuestion, error)
}

// ChatCompleter はチャット補完APIのクライアントです (*openai.Client が実装)。
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type chatQuestionSource struct {
	client      ChatCompleter
	prompts     *PromptBuilder
	model       string
	temperature float32
	logger      *slog.Logger
}

// NewChatQuestionSource は設定からチャット補完APIを使う QuestionSource を作ります。
// APIキーがなければ config.ErrMissingAPIKey を返します。
func NewChatQuestionSource(cfg *config.Config, logger *slog.Logger) (QuestionSource, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return nil, config.ErrMissingAPIKey
	}
	clientCfg := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		clientCfg.BaseURL = cfg.LLM.BaseURL
	}
	// タイムアウトはトランスポート層の責務
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.LLM.Timeout}

	return NewQuestionSource(
		openai.NewClientWithConfig(clientCfg),
		NewPromptBuilder(cfg.Quiz),
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		logger,
	), nil
}

func NewQuestionSource(client ChatCompleter, prompts *PromptBuilder, modelName string, temperature float32, logger *slog.Logger) QuestionSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &chatQuestionSource{
		client:      client,
		prompts:     prompts,
		model:       modelName,
		temperature: temperature,
		logger:      logger,
	}
}

func (s *chatQuestionSource) GenerateQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	prompt := s.prompts.Build()
	logger := middleware.LoggerFrom(ctx, s.logger).With(
		slog.String("model", s.model),
		slog.String("topic", prompt.Topic),
		slog.Int("count", prompt.Count),
	)
	logger.Info("Requesting quiz questions")
	logger.Debug("Quiz prompt", slog.String("prompt", prompt.Text))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt.Text},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		logger.Error("Chat completion request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", model.ErrTransportFailure, err)
	}
	if len(resp.Choices) == 0 {
		logger.Error("Chat completion returned no choices")
		return nil, fmt.Errorf("%w: no choices in response", model.ErrTransportFailure)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		logger.Error("Chat completion returned empty content")
		return nil, fmt.Errorf("%w: no message content", model.ErrTransportFailure)
	}

	questions, err := normalizer.Normalize(content)
	if err != nil {
		// 生の返答は診断用にログにだけ残す
		logger.Warn("Failed to normalize chat completion content", slog.Any("error", err), slog.String("raw", content))
		return nil, err
	}

	logger.Info("Quiz questions generated", slog.Int("received", len(questions)))
	return questions, nil
}
