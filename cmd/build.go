package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/ai"
	"github.com/spigell/nurse-matcher/internal/ai/gemini"
	"github.com/spigell/nurse-matcher/internal/ai/openai"
	"github.com/spigell/nurse-matcher/internal/filtering"
	"github.com/spigell/nurse-matcher/internal/matching"
	"github.com/spigell/nurse-matcher/internal/notify"
	"github.com/spigell/nurse-matcher/internal/platform"
	"github.com/spigell/nurse-matcher/internal/secrets"
	"github.com/spigell/nurse-matcher/internal/service"
	"github.com/spigell/nurse-matcher/internal/store"
)

// engine holds everything a command needs to run matching.
type engine struct {
	store        store.Store
	service      *service.Service
	orchestrator *matching.Orchestrator
	closers      []func() error
}

func (e *engine) Close() {
	e.orchestrator.Wait()
	for _, closeFn := range e.closers {
		_ = closeFn()
	}
}

// runWithEngine runs fn and closes eng before returning fn's error, so pending
// notifications are delivered even when the caller exits on failure.
func runWithEngine(eng *engine, fn func() error) error {
	defer eng.Close()
	return fn()
}

func buildEngine(ctx context.Context, config *Config, logger *zap.Logger) (_ *engine, err error) {
	e := &engine{}
	defer func() {
		if err != nil {
			for _, closeFn := range e.closers {
				_ = closeFn()
			}
		}
	}()

	st, closeFn, err := newStore(ctx, config.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", config.Store.Driver, err)
	}
	e.store = st
	if closeFn != nil {
		e.closers = append(e.closers, closeFn)
	}

	weights := config.Matching.Weights
	if weights != (matching.Weights{}) {
		if err := weights.Validate(); err != nil {
			return nil, fmt.Errorf("matching.weights: %w", err)
		}
	}
	rules := matching.NewRuleScorer(weights)

	opts := matching.Options{
		Concurrency:     config.Matching.Concurrency,
		NotifyThreshold: config.Matching.NotifyThreshold,
		NotifyTimeout:   config.Notify.Timeout,
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}

	// The AI path is optional: anything short of a usable provider means rules only.
	var assisted matching.Scorer
	provider, err := newProvider(ctx, config.AI, logger)
	switch {
	case err != nil:
		logger.Warn("ai scoring disabled", zap.Error(err))
	case provider != nil:
		assisted = matching.NewAssistedScorer(provider, rules, config.Matching.AITimeout, logger)
		logger.Info("ai scoring enabled", zap.String("provider", provider.Name()), zap.String("model", provider.Model()))
	}

	gateway, err := newGateway(config.Notify, logger)
	if err != nil {
		return nil, fmt.Errorf("building %s notifier: %w", config.Notify.Driver, err)
	}

	e.orchestrator = matching.NewOrchestrator(rules, assisted, gateway, opts, logger)

	e.service = service.New(st, st, newFilters(config.Filters, logger), e.orchestrator, logger)

	return e, nil
}

func newStore(ctx context.Context, cfg *StoreConfig, logger *zap.Logger) (store.Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		st, err := store.OpenFile(cfg.Path)
		return st, nil, err

	case "postgres":
		dsn, err := secrets.Load(secrets.Source{
			Name:  "postgres dsn",
			Value: cfg.DSN,
			File:  cfg.DSNFile,
			Env:   "DATABASE_URL",
		})
		if err != nil {
			return nil, nil, err
		}

		pg, err := store.NewPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, nil, fmt.Errorf("migrating schema: %w", err)
			}
		}
		return pg, pg.Close, nil

	case "platform":
		if strings.TrimSpace(cfg.Platform.URL) == "" {
			return nil, nil, errors.New("store.platform.url is required")
		}

		src := secrets.Source{
			Name:  "platform token",
			Value: cfg.Platform.Token,
			File:  cfg.Platform.TokenFile,
			Env:   "PLATFORM_TOKEN",
		}
		var token string
		if src.Configured() {
			var err error
			if token, err = secrets.Load(src); err != nil {
				return nil, nil, err
			}
		}

		return platform.New(cfg.Platform.URL, token, cfg.Platform.Timeout, logger), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

// newProvider returns a nil provider without error when AI scoring is switched off.
func newProvider(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Provider, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	switch strings.TrimSpace(strings.ToLower(cfg.Provider)) {
	case "", "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))
		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
		if err != nil {
			return nil, err
		}
		return gemini.NewProvider(generator, cfg.Gemini.MaxLogLength, logger), nil

	case "openai":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		provider, err := openai.NewProvider(openai.Options{
			APIKey:       apiKey,
			Model:        cfg.OpenAI.Model,
			BaseURL:      cfg.OpenAI.BaseURL,
			MaxLogLength: cfg.OpenAI.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, err
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newGateway(cfg *NotifyConfig, logger *zap.Logger) (notify.Gateway, error) {
	var gateway notify.Gateway

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "none", "off":
		return nil, nil

	case "", "log":
		gateway = notify.NewLogGateway(logger)

	case "telegram":
		token, err := secrets.Load(secrets.Source{
			Name:  "telegram bot token",
			Value: cfg.Telegram.Token,
			File:  cfg.Telegram.TokenFile,
			Env:   "TELEGRAM_BOT_TOKEN",
		})
		if err != nil {
			return nil, err
		}
		tg, err := notify.NewTelegram(token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		gateway = tg

	case "discord":
		token, err := secrets.Load(secrets.Source{
			Name:  "discord bot token",
			Value: cfg.Discord.Token,
			File:  cfg.Discord.TokenFile,
			Env:   "DISCORD_BOT_TOKEN",
		})
		if err != nil {
			return nil, err
		}
		dc, err := notify.NewDiscord(token, cfg.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		gateway = dc

	default:
		return nil, fmt.Errorf("unsupported notify driver: %s", cfg.Driver)
	}

	return notify.NewDedup(gateway, cfg.Cooldown), nil
}

func newFilters(cfg *FiltersConfig, logger *zap.Logger) *filtering.Filtering {
	return filtering.New([]filtering.Filter{
		filtering.NewActive(),
		filtering.NewExcludedFacilities(cfg.ExcludeFacilities),
	}, logger)
}
