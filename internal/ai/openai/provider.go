package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/ai"
	"github.com/spigell/nurse-matcher/internal/logger"
	"github.com/spigell/nurse-matcher/internal/utils"
)

const (
	providerName        = "openai"
	defaultModel        = "gpt-4o-mini"
	defaultMaxLogLength = 200
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Provider scores candidate/job pairs with an OpenAI compatible chat completion API.
type Provider struct {
	client    chatCompleter
	model     string
	logger    *zap.Logger
	maxLogLen int
}

// Options configures the OpenAI provider.
type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	MaxLogLength int
}

func NewProvider(opts Options, log *zap.Logger) (*Provider, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return newProvider(goopenai.NewClientWithConfig(cfg), opts.Model, opts.MaxLogLength, log), nil
}

func newProvider(client chatCompleter, model string, maxLogLength int, log *zap.Logger) *Provider {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Provider{
		client:    client,
		model:     model,
		logger:    logger.WithCommonFields(log, providerName, model),
		maxLogLen: maxLogLength,
	}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Model() string { return p.model }

func (p *Provider) Assess(ctx context.Context, req ai.Request) (*ai.Assessment, error) {
	prompt := ai.BuildPrompt(req)

	p.logger.Debug("openai chat completion request",
		zap.String("job_id", req.JobID),
		zap.String("candidate_id", req.CandidateID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: ai.SystemInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	raw := resp.Choices[0].Message.Content

	p.logger.Debug("openai chat completion response",
		zap.String("job_id", req.JobID),
		zap.String("candidate_id", req.CandidateID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return ai.ParseAssessment(raw)
}
