package gemini

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/ai"
	"github.com/spigell/nurse-matcher/internal/logger"
	"github.com/spigell/nurse-matcher/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Provider scores candidate/job pairs with Gemini.
type Provider struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewProvider(generator contentGenerator, maxLogLength int, log *zap.Logger) *Provider {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Provider{
		generator: generator,
		logger:    logger.WithCommonFields(log, providerName, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) Model() string { return p.generator.Model() }

func (p *Provider) Assess(ctx context.Context, req ai.Request) (*ai.Assessment, error) {
	prompt := ai.BuildPrompt(req)

	p.logger.Debug("gemini generate content request",
		zap.String("job_id", req.JobID),
		zap.String("candidate_id", req.CandidateID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, ai.SystemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini generate content response",
		zap.String("job_id", req.JobID),
		zap.String("candidate_id", req.CandidateID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	return ai.ParseAssessment(raw)
}
